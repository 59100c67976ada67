package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/moodplan/internal/config"
	"github.com/javiermolinar/moodplan/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  moodplan config
  moodplan config --show`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if show {
				printConfig(a.out, a.config)
				return nil
			}
			return a.runConfigInteractive(os.Stdin)
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "Print the loaded configuration and exit")
	return cmd
}

func (a *App) runConfigInteractive(in io.Reader) error {
	configPath := config.DefaultConfigPath()
	fmt.Fprintf(a.out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Fprintln(a.out, "No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(a.out, "Created %s\n\n", configPath)
	}

	printConfig(a.out, cfg)

	p := prompter{in: bufio.NewReader(in), out: a.out}
	if !p.yesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Schedule.DayStart = p.value("Day start", cfg.Schedule.DayStart)
	cfg.Schedule.DayEnd = p.value("Day end", cfg.Schedule.DayEnd)
	cfg.Schedule.RejectPast = p.boolean("Reject start times already past", cfg.Schedule.RejectPast)
	cfg.Conflict.AutoShift = p.boolean("Push overlapping plans instead of failing", cfg.Conflict.AutoShift)
	cfg.Conflict.MaxIterations = p.integer("Max resolver iterations", cfg.Conflict.MaxIterations)
	cfg.Storage.Driver = p.value("Storage driver (sqlite, backend)", cfg.Storage.Driver)
	cfg.Storage.DBPath = p.value("Database path", cfg.Storage.DBPath)
	cfg.Backend.BaseURL = p.value("Backend URL", cfg.Backend.BaseURL)
	cfg.LLM.Provider = p.value("LLM provider (ollama, copilot, lmstudio)", cfg.LLM.Provider)
	cfg.LLM.Model = p.value("LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = p.value("LLM base URL (empty for provider default)", cfg.LLM.BaseURL)
	cfg.UI.Theme = p.theme(cfg.UI.Theme)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(a.out, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[schedule]")
	fmt.Fprintf(w, "  day_start       = %s\n", cfg.Schedule.DayStart)
	fmt.Fprintf(w, "  day_end         = %s\n", cfg.Schedule.DayEnd)
	fmt.Fprintf(w, "  reject_past     = %t\n", cfg.Schedule.RejectPast)
	fmt.Fprintln(w, "\n[conflict]")
	fmt.Fprintf(w, "  max_iterations  = %d\n", cfg.Conflict.MaxIterations)
	fmt.Fprintf(w, "  auto_shift      = %t\n", cfg.Conflict.AutoShift)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  driver          = %s\n", cfg.Storage.Driver)
	fmt.Fprintf(w, "  db_path         = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[backend]")
	fmt.Fprintf(w, "  base_url        = %s\n", cfg.Backend.BaseURL)
	fmt.Fprintf(w, "  timeout_seconds = %d\n", cfg.Backend.TimeoutSeconds)
	fmt.Fprintln(w, "\n[llm]")
	fmt.Fprintf(w, "  provider        = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(w, "  model           = %s\n", cfg.LLM.Model)
	fmt.Fprintf(w, "  base_url        = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme           = %s\n", cfg.UI.Theme)
}

// prompter asks line based questions, keeping the current value on empty input.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p prompter) readLine() string {
	input, _ := p.in.ReadString('\n')
	return strings.TrimSpace(input)
}

func (p prompter) yesNo(question string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	input := strings.ToLower(p.readLine())
	return input == "y" || input == "yes"
}

func (p prompter) value(label, current string) string {
	if current == "" {
		fmt.Fprintf(p.out, "  %s: ", label)
	} else {
		fmt.Fprintf(p.out, "  %s [%s]: ", label, current)
	}
	if input := p.readLine(); input != "" {
		return input
	}
	return current
}

func (p prompter) boolean(label string, current bool) bool {
	for {
		input := p.value(label+" (true/false)", strconv.FormatBool(current))
		v, err := strconv.ParseBool(input)
		if err == nil {
			return v
		}
		fmt.Fprintf(p.out, "  Invalid value %q\n", input)
	}
}

func (p prompter) integer(label string, current int) int {
	for {
		input := p.value(label, strconv.Itoa(current))
		v, err := strconv.Atoi(input)
		if err == nil && v > 0 {
			return v
		}
		fmt.Fprintf(p.out, "  Invalid number %q\n", input)
	}
}

func (p prompter) theme(current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(p.value(label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(p.out, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
