package analytics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := Open(filepath.Join(t.TempDir(), "analytics.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { tr.Close() })
	return tr
}

func TestHashIP(t *testing.T) {
	tr := openTracker(t)

	a := tr.hashIP("203.0.113.7")
	assert.Len(t, a, 16)
	assert.Equal(t, a, tr.hashIP("203.0.113.7"))
	assert.NotEqual(t, a, tr.hashIP("203.0.113.8"))
	assert.NotContains(t, a, "203")
}

func TestRecordAndStats(t *testing.T) {
	tr := openTracker(t)
	ctx := context.Background()

	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	clock := now.Add(-10 * 24 * time.Hour)
	tr.now = func() time.Time { return clock }
	require.NoError(t, tr.Record(ctx, "1.1.1.1", "old", "/api/projects"))

	clock = now.Add(-3 * 24 * time.Hour)
	require.NoError(t, tr.Record(ctx, "1.1.1.1", "week", "/api/projects"))

	clock = now.Add(-time.Hour)
	require.NoError(t, tr.Record(ctx, "2.2.2.2", "today", "/api/messages"))

	clock = now
	stats, err := tr.Stats(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.TotalVisits)
	assert.EqualValues(t, 2, stats.UniqueVisitors)
	assert.EqualValues(t, 1, stats.VisitsToday)
	assert.EqualValues(t, 2, stats.VisitsThisWeek)
	require.Len(t, stats.RecentVisits, 3)
	assert.Equal(t, "today", stats.RecentVisits[0].UserAgent)
	assert.Equal(t, "/api/messages", stats.RecentVisits[0].Path)
}

func TestCleanup(t *testing.T) {
	tr := openTracker(t)
	ctx := context.Background()

	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return now.AddDate(-2, 0, 0) }
	require.NoError(t, tr.Record(ctx, "1.1.1.1", "", "/"))
	tr.now = func() time.Time { return now }
	require.NoError(t, tr.Record(ctx, "1.1.1.1", "", "/"))

	n, err := tr.Cleanup(ctx, 365*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	stats, err := tr.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalVisits)
}

func TestShouldTrack(t *testing.T) {
	tests := []struct {
		path string
		dnt  string
		want bool
	}{
		{"/api/projects", "", true},
		{"/api/messages", "0", true},
		{"/api/projects", "1", false},
		{"/uploads/1.png", "", false},
		{"/health", "", false},
		{"/api/stats", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shouldTrack(tt.path, tt.dnt), "%s dnt=%q", tt.path, tt.dnt)
	}
}

func TestMiddleware_RecordsVisit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tr := openTracker(t)

	r := gin.New()
	r.Use(tr.Middleware())
	r.GET("/api/projects", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Eventually(t, func() bool {
		stats, err := tr.Stats(context.Background())
		return err == nil && stats.TotalVisits == 1
	}, 2*time.Second, 10*time.Millisecond)
}
