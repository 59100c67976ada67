package llm

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewClient_Ollama(t *testing.T) {
	for _, provider := range []string{"ollama", "", " Ollama "} {
		client, err := NewClient(context.Background(), provider, "llama3", "")
		if err != nil {
			t.Fatalf("provider %q: expected nil error, got %v", provider, err)
		}
		ollamaClient, ok := client.(*OllamaClient)
		if !ok {
			t.Fatalf("provider %q: expected OllamaClient, got %T", provider, client)
		}
		if ollamaClient.baseURL != defaultOllamaBaseURL {
			t.Errorf("baseURL = %q, want %q", ollamaClient.baseURL, defaultOllamaBaseURL)
		}
	}
}

func TestNewClient_LMStudio(t *testing.T) {
	client, err := NewClient(context.Background(), "lmstudio", "llama3", "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	lmStudioClient, ok := client.(*LMStudioClient)
	if !ok {
		t.Fatalf("expected LMStudioClient, got %T", client)
	}
	if lmStudioClient.baseURL != defaultLMStudioBaseURL {
		t.Errorf("baseURL = %q, want %q", lmStudioClient.baseURL, defaultLMStudioBaseURL)
	}
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(context.Background(), "unknown", "model", "")
	if err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestNewOllamaClient_EmptyModel(t *testing.T) {
	if _, err := NewOllamaClient(" ", ""); err == nil {
		t.Fatal("expected error for empty model")
	}
}

func TestLoadGitHubToken(t *testing.T) {
	t.Run("env wins", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "env-token")
		got, err := LoadGitHubToken()
		if err != nil || got != "env-token" {
			t.Errorf("LoadGitHubToken() = %q, %v", got, err)
		}
	})

	t.Run("hosts file", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("XDG_CONFIG_HOME", dir)

		cfgDir := filepath.Join(dir, "github-copilot")
		if err := os.MkdirAll(cfgDir, 0o755); err != nil {
			t.Fatal(err)
		}
		hosts := `{"github.com": {"user": "ana", "oauth_token": "file-token"}}`
		if err := os.WriteFile(filepath.Join(cfgDir, "hosts.json"), []byte(hosts), 0o600); err != nil {
			t.Fatal(err)
		}

		got, err := LoadGitHubToken()
		if err != nil || got != "file-token" {
			t.Errorf("LoadGitHubToken() = %q, %v", got, err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		if _, err := LoadGitHubToken(); !errors.Is(err, ErrNoGitHubToken) {
			t.Errorf("expected ErrNoGitHubToken, got %v", err)
		}
	})
}
