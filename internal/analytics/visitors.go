// Package analytics records privacy-conscious API visit metrics in SQLite.
package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Visit is one tracked request. The client IP is only kept as a salted hash.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type Stats struct {
	TotalVisits    int64   `json:"total_visits"`
	UniqueVisitors int64   `json:"unique_visitors"`
	VisitsToday    int64   `json:"visits_today"`
	VisitsThisWeek int64   `json:"visits_this_week"`
	RecentVisits   []Visit `json:"recent_visits"`
}

// Tracker writes visits to a SQLite database.
type Tracker struct {
	db     *sql.DB
	salt   string
	logger *zap.Logger
	now    func() time.Time
}

const createVisitsTable = `
CREATE TABLE IF NOT EXISTS visits (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	visited_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visits_visited_at ON visits (visited_at);`

// Open opens (or creates) the database at path.
func Open(path string, logger *zap.Logger) (*Tracker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}
	// one writer keeps SQLite from returning SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createVisitsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create visits table: %w", err)
	}

	salt, err := newSalt()
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("visitor tracking enabled with hashed IP addresses", zap.String("db", path))
	return &Tracker{db: db, salt: salt, logger: logger, now: time.Now}, nil
}

func (t *Tracker) Close() error {
	return t.db.Close()
}

func (t *Tracker) Ping(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

func newSalt() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// hashIP is stable per IP for the lifetime of the process.
func (t *Tracker) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + t.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// Record stores a visit.
func (t *Tracker) Record(ctx context.Context, ip, userAgent, path string) error {
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO visits (hashed_ip, user_agent, path, visited_at) VALUES (?, ?, ?, ?)`,
		t.hashIP(ip), userAgent, path, t.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// Middleware records each tracked request in the background.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !shouldTrack(path, c.GetHeader("DNT")) {
			c.Next()
			return
		}

		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := t.Record(ctx, ip, ua, path); err != nil {
				t.logger.Warn("error recording visitor", zap.Error(err))
			}
		}()
		c.Next()
	}
}

func shouldTrack(path, dnt string) bool {
	if dnt == "1" {
		return false
	}
	switch {
	case strings.HasPrefix(path, "/uploads/"),
		strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/favicon"),
		path == "/api/stats":
		return false
	}
	return true
}

// Cleanup deletes visits older than retention and returns how many went.
func (t *Tracker) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := t.now().Add(-retention).Unix()
	res, err := t.db.ExecContext(ctx, `DELETE FROM visits WHERE visited_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup visits: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		t.logger.Info("privacy cleanup removed old visits", zap.Int64("rows", n))
	}
	return n, nil
}

func (t *Tracker) Stats(ctx context.Context) (*Stats, error) {
	now := t.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	stats := &Stats{RecentVisits: []Visit{}}

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisits, `SELECT COUNT(*) FROM visits`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visits`, nil},
		{&stats.VisitsToday, `SELECT COUNT(*) FROM visits WHERE visited_at >= ?`, []any{startOfDay.Unix()}},
		{&stats.VisitsThisWeek, `SELECT COUNT(*) FROM visits WHERE visited_at >= ?`, []any{now.Add(-7 * 24 * time.Hour).Unix()}},
	}
	for _, q := range counts {
		if err := t.db.QueryRowContext(ctx, q.query, q.args...).Scan(q.dst); err != nil {
			return nil, fmt.Errorf("query stats: %w", err)
		}
	}

	rows, err := t.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), visited_at
		FROM visits
		ORDER BY visited_at DESC, id DESC
		LIMIT 50`)
	if err != nil {
		return nil, fmt.Errorf("query recent visits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v Visit
		var ts int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		v.Timestamp = time.Unix(ts, 0).UTC()
		stats.RecentVisits = append(stats.RecentVisits, v)
	}
	return stats, rows.Err()
}
