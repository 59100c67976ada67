package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/moodplan/internal/llm"
	"github.com/javiermolinar/moodplan/internal/microplan"
)

const (
	choiceSave   = "save"
	choiceModify = "modify"
	choiceCancel = "cancel"
)

func (a *App) planCmd() *cobra.Command {
	var (
		modelFlag string
		minutes   int
		note      string
		dryRun    bool
		yes       bool
	)

	cmd := &cobra.Command{
		Use:   "plan [mood]",
		Short: "Suggest a short plan for how you feel right now",
		Long: `Ask the LLM for a few small tasks that fit your mood and the next free
minutes of today. The tasks are placed after your existing plans and saved
once you accept them.

Examples:
  moodplan plan "tired but want to finish the essay"
  moodplan plan anxious --minutes 30 --context "exam on friday"
  moodplan plan bored --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := cmd.Context()
			model := modelFlag
			if model == "" {
				model = a.config.LLM.Model
			}
			client, err := a.newLLM(ctx, model)
			if err != nil {
				return fmt.Errorf("creating LLM client: %w", err)
			}

			planner := microplan.New(client, a.repo, a.scheduler(), a.config.Conflict.MaxIterations).WithNow(a.now)
			req := microplan.Request{
				Mood:         strings.Join(args, " "),
				Context:      note,
				TotalMinutes: minutes,
			}

			for {
				fmt.Fprintln(a.out, formatMuted("Thinking..."))
				proposal, err := planner.Propose(ctx, req)
				if err != nil {
					return fmt.Errorf("planning: %w", err)
				}
				a.displayProposal(proposal)

				if dryRun {
					fmt.Fprintln(a.out, formatMuted("\n(Dry run - plans not saved)"))
					return nil
				}
				if len(proposal.Tasks) == 0 {
					return nil
				}

				choice := choiceSave
				if !yes {
					if !isInteractive() {
						return errors.New("not a terminal, pass --yes to save or --dry-run to preview")
					}
					choice, err = askPlanChoice()
					if err != nil {
						return err
					}
				}

				switch choice {
				case choiceSave:
					saved, err := planner.Save(ctx, proposal)
					if err != nil {
						return err
					}
					fmt.Fprintf(a.out, "\n%s %d plans\n", formatSuccess("Saved"), len(saved))
					return nil
				case choiceModify:
					extra, err := askNote()
					if err != nil {
						return err
					}
					req.Context = strings.TrimSpace(req.Context + " " + extra)
				default:
					fmt.Fprintln(a.out, "Planning cancelled.")
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVar(&modelFlag, "model", "", "LLM model to use (from config if not set)")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", llm.DefaultMicroPlanMinutes, "Total minutes to plan")
	cmd.Flags().StringVar(&note, "context", "", "Anything the plan should take into account")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the plan without saving")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Save without asking")

	return cmd
}

// defaultLLM builds the client configured under [llm].
func (a *App) defaultLLM(ctx context.Context, model string) (llm.Client, error) {
	return llm.NewClient(ctx, a.config.LLM.Provider, model, a.config.LLM.BaseURL)
}

func askPlanChoice() (string, error) {
	choice := choiceSave
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What now?").
				Options(
					huh.NewOption("Save these plans", choiceSave),
					huh.NewOption("Ask again with a note", choiceModify),
					huh.NewOption("Cancel", choiceCancel),
				).
				Value(&choice),
		),
	).WithTheme(huh.ThemeCatppuccin()).WithShowHelp(false).Run()
	return choice, err
}

func askNote() (string, error) {
	var note string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What should change?").
				Value(&note).
				Validate(validateRequired),
		),
	).WithTheme(huh.ThemeCatppuccin()).WithShowHelp(false).Run()
	return note, err
}

func (a *App) displayProposal(p *microplan.Proposal) {
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "%s\n", formatHeader(p.Date.Format("Monday, January 2")))
	if p.PlanText != "" {
		printWrapped(a.out, p.PlanText, 70)
	}
	fmt.Fprintln(a.out, strings.Repeat("-", 60))

	if len(p.Tasks) == 0 {
		fmt.Fprintln(a.out, "  No task fits in what is left of today.")
	}
	for _, t := range p.Tasks {
		fmt.Fprintf(a.out, "  %s-%s  %s  %s %s\n",
			t.Start, t.End, formatCategory(t.Category), t.Title,
			formatMuted(FormatDuration(t.DurationMinutes)))
	}
	for _, t := range p.Unplaced {
		fmt.Fprintf(a.out, "  %s %s\n", formatWarning("no room for"), t.Title)
	}
	fmt.Fprintln(a.out, strings.Repeat("-", 60))
	fmt.Fprintf(a.out, "Total: %d tasks, %s\n", len(p.Tasks), FormatDuration(p.TotalMinutes()))
}
