package ui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/moodplan/internal/db"
	"github.com/javiermolinar/moodplan/internal/plan"
)

func TestImportPlans(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	sourceRepo, err := db.New(filepath.Join(dir, "source.db"))
	if err != nil {
		t.Fatalf("creating source repo: %v", err)
	}
	destRepo, err := db.New(filepath.Join(dir, "dest.db"))
	if err != nil {
		t.Fatalf("creating destination repo: %v", err)
	}
	defer func() { _ = destRepo.Close() }()

	date := time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local)
	source := []*plan.Plan{
		{Title: "Lab", Category: plan.CategoryStudy, DurationMinutes: 60, Status: plan.StatusCompleted, ScheduledDate: date, ScheduledTime: "09:00"},
		{Title: "Gym", Category: plan.CategoryPersonal, DurationMinutes: 30, Status: plan.StatusPending, ScheduledDate: date, ScheduledTime: "18:00"},
		{Title: "Call mum", Category: plan.CategoryPersonal, DurationMinutes: 15, Status: plan.StatusPending, ScheduledDate: date},
	}
	if err := sourceRepo.CreatePlans(ctx, source); err != nil {
		t.Fatalf("seeding source: %v", err)
	}
	if err := sourceRepo.Close(); err != nil {
		t.Fatalf("closing source: %v", err)
	}

	imported, skipped, err := importPlans(ctx, destRepo, filepath.Join(dir, "source.db"), false)
	if err != nil {
		t.Fatalf("importPlans failed: %v", err)
	}
	if imported != 3 || skipped != 0 {
		t.Fatalf("imported, skipped = %d, %d, want 3, 0", imported, skipped)
	}

	plans, err := destRepo.ListPlans(ctx, plan.OnDate(date))
	if err != nil {
		t.Fatalf("listing imported plans: %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("expected 3 imported plans, got %d", len(plans))
	}

	byTitle := make(map[string]*plan.Plan)
	for _, p := range plans {
		byTitle[p.Title] = p
	}
	lab := byTitle["Lab"]
	if lab == nil || lab.ScheduledTime != "09:00" || lab.Status != plan.StatusCompleted || lab.DurationMinutes != 60 {
		t.Errorf("Lab not copied faithfully: %+v", lab)
	}
	if lab != nil && lab.ID == source[0].ID {
		t.Errorf("imported plan kept source ID %s", lab.ID)
	}
	if p := byTitle["Call mum"]; p == nil || p.IsScheduled() {
		t.Errorf("unscheduled plan not copied: %+v", p)
	}
}

func TestImportPlans_SkipConflicts(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "source.db")

	sourceRepo, err := db.New(sourcePath)
	if err != nil {
		t.Fatalf("creating source repo: %v", err)
	}
	destRepo, err := db.New(filepath.Join(dir, "dest.db"))
	if err != nil {
		t.Fatalf("creating destination repo: %v", err)
	}
	defer func() { _ = destRepo.Close() }()

	date := time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local)
	existing := &plan.Plan{Title: "Lecture", Category: plan.CategoryStudy, DurationMinutes: 90, Status: plan.StatusPending, ScheduledDate: date, ScheduledTime: "10:00"}
	if err := destRepo.CreatePlan(ctx, existing); err != nil {
		t.Fatalf("seeding dest: %v", err)
	}

	source := []*plan.Plan{
		{Title: "Overlaps lecture", Category: plan.CategoryWork, DurationMinutes: 30, Status: plan.StatusPending, ScheduledDate: date, ScheduledTime: "11:00"},
		{Title: "Done earlier", Category: plan.CategoryWork, DurationMinutes: 30, Status: plan.StatusCompleted, ScheduledDate: date, ScheduledTime: "10:30"},
		{Title: "After lecture", Category: plan.CategoryWork, DurationMinutes: 30, Status: plan.StatusPending, ScheduledDate: date, ScheduledTime: "11:30"},
		{Title: "Overlaps import", Category: plan.CategoryWork, DurationMinutes: 30, Status: plan.StatusPending, ScheduledDate: date, ScheduledTime: "11:45"},
	}
	if err := sourceRepo.CreatePlans(ctx, source); err != nil {
		t.Fatalf("seeding source: %v", err)
	}
	_ = sourceRepo.Close()

	imported, skipped, err := importPlans(ctx, destRepo, sourcePath, true)
	if err != nil {
		t.Fatalf("importPlans failed: %v", err)
	}
	if imported != 2 || skipped != 2 {
		t.Errorf("imported, skipped = %d, %d, want 2, 2", imported, skipped)
	}
}

func TestResolvePath(t *testing.T) {
	if _, err := resolvePath("  "); err == nil {
		t.Error("expected error for empty path")
	}

	got, err := resolvePath("rel/moodplan.db")
	if err != nil {
		t.Fatalf("resolvePath failed: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("resolvePath returned relative path %q", got)
	}
}
