package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/adrianliechti/studio/pkg/auth"
	"github.com/adrianliechti/studio/pkg/studio"
	"github.com/adrianliechti/studio/server/api"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	http.Handler

	address     string
	authorizers []auth.Provider
}

type Option func(*Server)

func WithAuthorizers(authorizers ...auth.Provider) Option {
	return func(s *Server) {
		s.authorizers = append(s.authorizers, authorizers...)
	}
}

func New(address string, app *studio.Studio, options ...Option) (*Server, error) {
	h, err := api.New(app)

	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	s := &Server{
		Handler: r,

		address: address,
	}

	for _, option := range options {
		option(s)
	}

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Disposition"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.handleAuth)
		h.Attach(r)
	})

	return s, nil
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: otelhttp.NewHandler(s, "studio"),

		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)

	go func() {
		slog.Info("server listening", "address", s.address)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err

	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) handleAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.authorizers) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		var err error

		for _, a := range s.authorizers {
			var ctx context.Context

			if ctx, err = a.Authenticate(r.Context(), r); err == nil {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		slog.WarnContext(r.Context(), "request rejected", "path", r.URL.Path, "error", err)

		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}
