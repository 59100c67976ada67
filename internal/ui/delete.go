package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete [plan-id]",
		Aliases: []string{"rm"},
		Short:   "Delete a plan",
		Long: `Delete a plan permanently. Use cancel to keep it in the history.

Example:
  moodplan delete 3f2a --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := cmd.Context()
			p, err := a.findPlan(ctx, args[0])
			if err != nil {
				return err
			}

			if !yes {
				if !isInteractive() {
					return fmt.Errorf("refusing to delete %q without --yes", p.Title)
				}
				confirmed := false
				if err := confirmForm(fmt.Sprintf("Delete %q?", p.Title), &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(a.out, "Nothing deleted.")
					return nil
				}
			}

			if err := a.repo.DeletePlan(ctx, p.ID); err != nil {
				return fmt.Errorf("deleting plan: %w", err)
			}
			fmt.Fprintf(a.out, "%s %s: %s\n", formatSuccess("Deleted"), shortID(p.ID), p.Title)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
