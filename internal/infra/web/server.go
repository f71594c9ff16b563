package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/adapter"
	"recharge-inventory/internal/infra/logging"
	"recharge-inventory/internal/infra/metrics"
	"recharge-inventory/internal/usecase"
)

type Server struct {
	inventoryUC usecase.InventoryUseCase
	txUC        usecase.TransactionUseCase
	statsUC     usecase.StatsUseCase
	identity    adapter.IdentityVerifier
	sessions    *AuthManager
	maxUpload   int64
	log         *zerolog.Logger
}

type ServerOption func(*Server)

// WithSessions mounts /api/v1/session, which turns a bearer token into the
// HttpOnly session cookie and clears it on logout.
func WithSessions(am *AuthManager) ServerOption {
	return func(s *Server) { s.sessions = am }
}

func NewServer(
	inventoryUC usecase.InventoryUseCase,
	txUC usecase.TransactionUseCase,
	statsUC usecase.StatsUseCase,
	identity adapter.IdentityVerifier,
	maxUpload int64,
	logger *zerolog.Logger,
	opts ...ServerOption,
) *Server {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	s := &Server{
		inventoryUC: inventoryUC,
		txUC:        txUC,
		statsUC:     statsUC,
		identity:    identity,
		maxUpload:   maxUpload,
		log:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with health, metrics and the authenticated /api/v1 tree.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(s.observe)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.sessions != nil {
			r.Delete("/session", s.handleSessionEnd)
		}

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/me", s.handleMe)
			r.Get("/stats", s.handleStats)
			if s.sessions != nil {
				r.Post("/session", s.handleSessionStart)
			}

			r.Route("/codes", func(r chi.Router) {
				r.Get("/", s.handleListCodes)
				r.Post("/", s.handleCreateCode)

				r.Get("/import/template", s.handleImportTemplate)
				r.Post("/import/preview", s.handleImportPreview)
				r.Post("/import", s.handleImport)

				r.Get("/{id}", s.handleGetCode)
				r.Put("/{id}", s.handleUpdateCode)
				r.Delete("/{id}", s.handleDeleteCode)
				r.Post("/{id}/sell", s.handleSell)
			})

			r.Get("/transactions", s.handleListTransactions)
			r.Get("/transactions/export", s.handleExportTransactions)
		})
	})
	return r
}

type ctxKey struct{}

func userFrom(ctx context.Context) *model.User {
	u, _ := ctx.Value(ctxKey{}).(*model.User)
	return u
}

// authenticate resolves the caller through the identity verifier. Requests
// without a valid credential stop here with 401.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := TokenFromRequest(r)
		if tok == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing credentials"})
			return
		}
		u, err := s.identity.Verify(r.Context(), tok)
		if err != nil {
			s.writeErr(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, u)
		ctx = logging.WithUserID(ctx, u.ID)
		ctx = logging.WithRole(ctx, string(u.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// observe records request counts and latency by route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		metrics.ObserveHTTP(route, r.Method, rec.status, time.Since(start))
	})
}
