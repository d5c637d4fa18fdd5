package health

import (
	"context"
	"database/sql"
	"time"
)

// Service encapsulates health-related checks.
type Service struct {
	db *sql.DB
}

// NewService constructs a new health service. db may be nil when the
// API runs against in-memory repositories.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Status reports process liveness and database reachability.
func (s *Service) Status(ctx context.Context) map[string]any {
	out := map[string]any{"ok": true, "database": "disabled"}
	if s.db == nil {
		return out
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.db.PingContext(pingCtx); err != nil {
		out["ok"] = false
		out["database"] = "unreachable"
		return out
	}
	out["database"] = "ok"
	return out
}
