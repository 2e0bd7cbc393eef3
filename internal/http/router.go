package httpx

import (
	"log/slog"
	"net/http"

	"realtime-chat/internal/app"
	"realtime-chat/internal/store"
	"realtime-chat/internal/ws"
	"realtime-chat/pkg/auth"
	"realtime-chat/pkg/metrics"
)

// NewRouter wires up all HTTP routes, middleware, and handlers
func NewRouter(cfg app.Config, logger *slog.Logger, hub *ws.Hub, db *store.Postgres) http.Handler {
	mw := NewMiddleware(cfg)
	rooms := NewRoomsAPI(db)

	// Auth API
	j := auth.New(cfg.JWTSecret)
	authAPI := &AuthAPI{DB: db, JWT: j}

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	}))
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket endpoint
	mux.Handle("/ws", http.HandlerFunc(hub.ServeWS))

	// Auth endpoints
	mux.Handle("POST /api/auth/register", http.HandlerFunc(authAPI.Register))
	mux.Handle("POST /api/auth/login", http.HandlerFunc(authAPI.Login))
	mux.Handle("GET /api/auth/me", mw.Auth(http.HandlerFunc(authAPI.Me)))

	// Room metadata endpoints (JWT-protected)
	mux.Handle("POST /api/rooms", mw.Auth(http.HandlerFunc(rooms.Create)))
	mux.Handle("GET /api/rooms/{id}", mw.Auth(http.HandlerFunc(rooms.Get)))
	mux.Handle("DELETE /api/rooms/{id}", mw.Auth(http.HandlerFunc(rooms.Delete)))

	// CORS + rate limit applied globally
	return mw.Wrap(mux)
}
