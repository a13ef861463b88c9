package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/segyhp/rental-manager/pkg/response"

	"github.com/jmoiron/sqlx"
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      *sqlx.DB
	cache   Pinger
	storage Pinger
	timeout time.Duration
}

// NewHealthHandler builds the probes. storage may be nil when PDFs are not
// kept in object storage.
func NewHealthHandler(db *sqlx.DB, cache Pinger, storage Pinger, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthHandler{
		db:      db,
		cache:   cache,
		storage: storage,
		timeout: timeout,
	}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health performs a basic health check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	response.Success(w, status)
}

// Ready checks database, redis and object storage connectivity
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	h.check(r.Context(), &status, "database", h.db.PingContext)
	if h.cache != nil {
		h.check(r.Context(), &status, "redis", h.cache.Ping)
	}
	if h.storage != nil {
		h.check(r.Context(), &status, "storage", h.storage.Ping)
	}

	if status.Status == "error" {
		response.ServiceUnavailable(w, status)
		return
	}

	response.Success(w, status)
}

func (h *HealthHandler) check(ctx context.Context, status *HealthStatus, name string, ping func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := ping(ctx); err != nil {
		status.Status = "error"
		status.Checks[name] = "failed: " + err.Error()
		return
	}
	status.Checks[name] = "ok"
}
