package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/moodplan/internal/conflict"
	"github.com/javiermolinar/moodplan/internal/dateutil"
	"github.com/javiermolinar/moodplan/internal/db"
	"github.com/javiermolinar/moodplan/internal/plan"
)

func (a *App) importCmd() *cobra.Command {
	var skipConflicts bool

	cmd := &cobra.Command{
		Use:   "import [database_path]",
		Short: "Import plans from another database",
		Long: `Import all plans from another moodplan SQLite database into the current
store. Plans get new IDs. With --skip-conflicts, active plans that would
overlap a plan already in the store are left out.

Example:
  moodplan import ~/backup/moodplan.db --skip-conflicts`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			destPath, err := resolvePath(a.config.Storage.DBPath)
			if err != nil {
				return err
			}
			if sourcePath == destPath {
				return fmt.Errorf("source database matches current database")
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source database does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source database: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source database path is a directory: %s", sourcePath)
			}

			imported, skipped, err := importPlans(cmd.Context(), a.repo, sourcePath, skipConflicts)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Imported %d plans from %s\n", imported, sourcePath)
			if skipped > 0 {
				fmt.Fprintf(a.out, "%s\n", formatWarning(fmt.Sprintf("Skipped %d overlapping plans", skipped)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipConflicts, "skip-conflicts", false, "Leave out plans that overlap existing ones")
	return cmd
}

// importPlans copies every plan of the database at sourcePath into dest.
func importPlans(ctx context.Context, dest plan.Repository, sourcePath string, skipConflicts bool) (imported, skipped int, err error) {
	sourceRepo, err := db.New(sourcePath)
	if err != nil {
		return 0, 0, fmt.Errorf("opening source database: %w", err)
	}
	defer func() { _ = sourceRepo.Close() }()

	plans, err := sourceRepo.ListPlans(ctx, plan.Filter{})
	if err != nil {
		return 0, 0, fmt.Errorf("listing source plans: %w", err)
	}

	// Active plans per day in dest, grown as plans are imported.
	days := make(map[string][]conflict.Task)
	for _, src := range plans {
		p := *src
		p.ID = ""

		check := skipConflicts && p.IsScheduled() && p.IsActive()
		key := dateutil.Format(p.ScheduledDate)
		if check {
			if _, ok := days[key]; !ok {
				existing, err := dest.ListPlans(ctx, plan.OnDate(p.ScheduledDate))
				if err != nil {
					return imported, skipped, fmt.Errorf("listing plans on %s: %w", key, err)
				}
				days[key] = plan.ConflictTasks(existing)
			}
			if conflict.HasOverlap(days[key], p.ScheduledTime, p.DurationMinutes, "") {
				skipped++
				continue
			}
		}

		if err := dest.CreatePlan(ctx, &p); err != nil {
			return imported, skipped, fmt.Errorf("importing plan %q: %w", src.Title, err)
		}
		if check {
			days[key] = append(days[key], p.Task())
		}
		imported++
	}

	return imported, skipped, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
