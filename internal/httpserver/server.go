// internal/httpserver/server.go
//
// HTTP bridge between the puzzle engine and an external map UI.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     zerolog access logs).
//   - Diagnostics: "/", "/health", "/metrics".
//   - Route picker list: GET /routes.
//   - Puzzle endpoints: mounted under /puzzle (routes_puzzle.go).
//   - Anonymous device cookie that scopes each player's guess ledger.
//
// Notes:
//   - There is no login. The device cookie plays the role of a browser
//     profile's local storage scope.
//   - CORS is origin-aware and credentials-enabled so the cookie reaches us.

package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/routle/internal/daily"
	"github.com/robalobadob/routle/internal/metrics"
	"github.com/robalobadob/routle/internal/routes"
	"github.com/robalobadob/routle/internal/store"
)

// Pinger is an optional backend health probe (the SQLite store implements it).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles what the bridge needs. Catalog, Calendar, Source and Store
// are required.
type Deps struct {
	Catalog      *routes.Catalog
	Calendar     *daily.Calendar
	Source       daily.Source
	Store        store.KV
	MaxGuesses   int
	Metrics      *metrics.Collector // optional
	ClientOrigin string
	SecureCookie bool
}

// Server bundles router and engine dependencies.
type Server struct {
	r    *chi.Mux
	deps Deps
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{r: chi.NewRouter(), deps: d}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))     // request-scoped zerolog logger
	s.r.Use(accessLog())                     // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(d.ClientOrigin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"routle","endpoints":["/health","/metrics","GET /routes","GET /puzzle","POST /puzzle/guess","GET /puzzle/share"]}`))
	})
	s.r.Get("/health", s.handleHealth)
	if d.Metrics != nil {
		s.r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	s.r.Get("/routes", s.handleRoutes)
	s.mountPuzzle(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes a structured line per request via the hlog logger.
func accessLog() func(http.Handler) http.Handler {
	return hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", size).
			Dur("duration", d).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("http request")
	})
}

// ------------------------------ handlers -----------------------------------

// handleHealth reports {"ok":true}, or 503 when the store cannot be reached.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.deps.Store.(Pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "store": "error"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "routes": s.deps.Catalog.Len()})
}

// routeRef is the picker-facing view of a route.
type routeRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// handleRoutes lists every route in catalog order.
func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	out := make([]routeRef, 0, s.deps.Catalog.Len())
	for _, rt := range s.deps.Catalog.Routes() {
		out = append(out, routeRef{ID: rt.ID, Name: rt.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

// ---------------------------- device cookie --------------------------------

const deviceCookieName = "routle_device"

// ensureDeviceID returns an existing device cookie or sets a new one.
func (s *Server) ensureDeviceID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(deviceCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := genID()
	sameSite := http.SameSiteLaxMode
	if s.deps.SecureCookie {
		sameSite = http.SameSiteNoneMode // required for cross-site contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     deviceCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.deps.SecureCookie,
		SameSite: sameSite,
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ------------------------------ json helpers -------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
