package llm

import (
	"cmp"
	"errors"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultLMStudioBaseURL = "http://localhost:1234/v1"

// LMStudioClient implements the Client interface using LM Studio's OpenAI-compatible API.
type LMStudioClient struct {
	openAIChat
	baseURL string
}

// NewLMStudioClient creates a new LM Studio client. The API key is taken from
// LMSTUDIO_API_KEY or OPENAI_API_KEY; LM Studio accepts any value by default.
func NewLMStudioClient(model, baseURL string) (*LMStudioClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("lm studio model is required")
	}
	if baseURL == "" {
		baseURL = defaultLMStudioBaseURL
	}

	apiKey := cmp.Or(os.Getenv("LMSTUDIO_API_KEY"), os.Getenv("OPENAI_API_KEY"), "lm-studio")

	return &LMStudioClient{
		openAIChat: openAIChat{
			client: openai.NewClient(option.WithBaseURL(baseURL), option.WithAPIKey(apiKey)),
			model:  model,
			name:   "lm studio",
		},
		baseURL: baseURL,
	}, nil
}
