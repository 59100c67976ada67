package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javiermolinar/moodplan/internal/plan"
	"github.com/javiermolinar/moodplan/internal/session"
)

// fakeServer keeps plans in memory and speaks the backend's JSON.
type fakeServer struct {
	mu       sync.Mutex
	plans    map[string]map[string]any
	nextID   int
	lastAuth string
	lastBody map[string]any
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()
	fs := &fakeServer{plans: map[string]map[string]any{}}
	srv := httptest.NewServer(http.HandlerFunc(fs.handle))
	t.Cleanup(srv.Close)
	return fs, srv
}

func (fs *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.lastAuth = r.Header.Get("Authorization")
	if fs.lastAuth != "Bearer secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Could not validate credentials"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/plans/")
	switch {
	case r.Method == http.MethodPost && id == "":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		fs.lastBody = maps.Clone(body)
		fs.nextID++
		stamp := time.Date(2025, 1, 9, 8, 0, 0, 0, time.Local).Format(time.RFC3339Nano)
		body["id"] = fmt.Sprintf("p%d", fs.nextID)
		body["created_at"] = stamp
		body["updated_at"] = stamp
		delete(body, "scheduled_date")
		if at, ok := body["scheduled_time"].(string); ok {
			body["scheduled_time"] = at + ":00"
		}
		fs.plans[body["id"].(string)] = body
		writeJSON(w, http.StatusCreated, body)

	case r.Method == http.MethodGet && id == "":
		var list []map[string]any
		for _, p := range fs.plans {
			if c := r.URL.Query().Get("category"); c != "" && p["category"] != c {
				continue
			}
			if s := r.URL.Query().Get("status"); s != "" && p["status"] != s {
				continue
			}
			list = append(list, p)
		}
		writeJSON(w, http.StatusOK, map[string]any{"plans": list, "count": len(list)})

	case r.Method == http.MethodGet:
		p, ok := fs.plans[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Plan not found"})
			return
		}
		writeJSON(w, http.StatusOK, p)

	case r.Method == http.MethodPut:
		p, ok := fs.plans[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Plan not found"})
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		fs.lastBody = maps.Clone(body)
		for k, v := range body {
			p[k] = v
		}
		writeJSON(w, http.StatusOK, p)

	case r.Method == http.MethodDelete:
		if _, ok := fs.plans[id]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Plan not found"})
			return
		}
		delete(fs.plans, id)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T) (*fakeServer, *Client) {
	t.Helper()
	fs, srv := newFakeServer(t)
	c := New(srv.URL, time.Second, &session.Session{User: "ana", Token: "secret"})
	t.Cleanup(func() { _ = c.Close() })
	return fs, c
}

func TestClient_CreateAndGet(t *testing.T) {
	fs, c := newTestClient(t)
	ctx := context.Background()

	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.Local)
	p := &plan.Plan{
		Title:           "Revise algebra",
		Category:        plan.CategoryStudy,
		DurationMinutes: 30,
		Status:          plan.StatusPending,
		ScheduledDate:   date,
		ScheduledTime:   "09:00",
	}
	require.NoError(t, c.CreatePlan(ctx, p))

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "09:00", p.ScheduledTime, "seconds are trimmed")
	assert.True(t, p.ScheduledDate.Equal(date), "requested date is kept when the server drops it")
	assert.Equal(t, "Bearer secret", fs.lastAuth)
	assert.Equal(t, "2025-01-10", fs.lastBody["scheduled_date"])
	assert.NotContains(t, fs.lastBody, "description")

	got, err := c.GetPlan(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Revise algebra", got.Title)
	assert.Equal(t, plan.CategoryStudy, got.Category)
	assert.Equal(t, "09:00", got.ScheduledTime)
	assert.Equal(t, 2025, got.CreatedAt.Year())
}

func TestClient_NotFound(t *testing.T) {
	_, c := newTestClient(t)
	ctx := context.Background()

	_, err := c.GetPlan(ctx, "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, plan.ErrPlanNotFound)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Plan not found", apiErr.Detail)

	assert.ErrorIs(t, c.DeletePlan(ctx, "nope"), plan.ErrPlanNotFound)
}

func TestClient_Unauthorized(t *testing.T) {
	_, srv := newFakeServer(t)
	c := New(srv.URL, time.Second, nil)

	_, err := c.ListPlans(context.Background(), plan.Filter{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_ListPlans(t *testing.T) {
	_, c := newTestClient(t)
	ctx := context.Background()

	created := time.Date(2025, 1, 9, 0, 0, 0, 0, time.Local)
	for _, p := range []*plan.Plan{
		{Title: "late", Category: plan.CategoryWork, DurationMinutes: 30, Status: plan.StatusPending, ScheduledTime: "15:00"},
		{Title: "floating", Category: plan.CategoryStudy, DurationMinutes: 30, Status: plan.StatusPending},
		{Title: "early", Category: plan.CategoryStudy, DurationMinutes: 30, Status: plan.StatusCompleted, ScheduledTime: "08:00"},
	} {
		require.NoError(t, c.CreatePlan(ctx, p))
	}

	all, err := c.ListPlans(ctx, plan.OnDate(created))
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"early", "late", "floating"}, titles(all))

	study := plan.CategoryStudy
	byCategory, err := c.ListPlans(ctx, plan.Filter{Category: &study})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"early", "floating"}, titles(byCategory))

	done := plan.StatusCompleted
	byStatus, err := c.ListPlans(ctx, plan.Filter{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, []string{"early"}, titles(byStatus))

	otherDay, err := c.ListPlans(ctx, plan.OnDate(created.AddDate(0, 0, 1)))
	require.NoError(t, err)
	assert.Empty(t, otherDay)
}

func TestClient_UpdatePlan(t *testing.T) {
	fs, c := newTestClient(t)
	ctx := context.Background()

	p := &plan.Plan{Title: "Draft", Category: plan.CategoryOther, DurationMinutes: 30, Status: plan.StatusPending, ScheduledTime: "09:00"}
	require.NoError(t, c.CreatePlan(ctx, p))

	at := "2:30 pm"
	got, err := c.UpdatePlan(ctx, p.ID, plan.Update{ScheduledTime: &at})
	require.NoError(t, err)
	assert.Equal(t, "14:30", got.ScheduledTime)
	assert.Equal(t, map[string]any{"scheduled_time": "14:30"}, fs.lastBody)

	empty := ""
	got, err = c.UpdatePlan(ctx, p.ID, plan.Update{ScheduledTime: &empty})
	require.NoError(t, err)
	assert.False(t, got.IsScheduled())
	assert.Contains(t, fs.lastBody, "scheduled_time")
	assert.Nil(t, fs.lastBody["scheduled_time"])

	short := 1
	_, err = c.UpdatePlan(ctx, p.ID, plan.Update{DurationMinutes: &short})
	assert.ErrorIs(t, err, plan.ErrInvalidDuration)
}

func TestClient_DeletePlan(t *testing.T) {
	_, c := newTestClient(t)
	ctx := context.Background()

	p := &plan.Plan{Title: "Gone", Category: plan.CategoryOther, DurationMinutes: 30, Status: plan.StatusPending}
	require.NoError(t, c.CreatePlan(ctx, p))
	require.NoError(t, c.DeletePlan(ctx, p.ID))

	_, err := c.GetPlan(ctx, p.ID)
	assert.ErrorIs(t, err, plan.ErrPlanNotFound)
}

func TestTrimSeconds(t *testing.T) {
	assert.Equal(t, "09:05", trimSeconds("09:05:00"))
	assert.Equal(t, "09:05", trimSeconds("09:05"))
	assert.Equal(t, "", trimSeconds(""))
}

func titles(plans []*plan.Plan) []string {
	out := make([]string, len(plans))
	for i, p := range plans {
		out[i] = p.Title
	}
	return out
}
