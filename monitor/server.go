package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kdhansen/epidexus/collect"
	"github.com/kdhansen/epidexus/core"
	"github.com/kdhansen/epidexus/logging"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// EnvAddr is the environment variable overriding the default listen
// address.
const EnvAddr = "EPIDEXUS_MONITOR_ADDR"

// Options configures a Server.
type Options struct {
	// Addr is the listen address. Defaults to EPIDEXUS_MONITOR_ADDR, then
	// DefaultAddr.
	Addr string

	// Gatherer serves /metrics. Defaults to the prometheus default
	// gatherer.
	Gatherer prometheus.Gatherer

	// Logger receives request lifecycle traces. Defaults to
	// logging.NoOpLogger.
	Logger logging.Logger
}

// Server serves run records and sample series from a RunStore.
type Server struct {
	store    core.RunStore
	gatherer prometheus.Gatherer
	logger   logging.Logger
	addr     string
	router   chi.Router
}

// NewServer constructs a Server reading from the given store.
func NewServer(store core.RunStore, optFns ...func(o *Options)) *Server {
	opts := Options{
		Addr:     os.Getenv(EnvAddr),
		Gatherer: prometheus.DefaultGatherer,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	s := &Server{
		store:    store,
		gatherer: opts.Gatherer,
		logger:   opts.Logger,
		addr:     opts.Addr,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/runs", s.handleListRuns)
	r.Get("/api/runs/{runID}/samples", s.handleSamples)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	s.router = r

	return s
}

// Handler returns the HTTP handler; tests mount it on httptest servers.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.addr }

// Start serves until the context is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Monitor listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns(r.Context())
	if err != nil {
		s.logger.Error("List runs failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []core.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	samples, err := s.store.Samples(r.Context(), runID)
	if err != nil {
		if errors.Is(err, collect.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		s.logger.Error("Samples lookup failed", "run_id", runID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load samples")
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		if err := collect.EncodeCSV(w, samples); err != nil {
			s.logger.Error("CSV encoding failed", "run_id", runID, "error", err)
		}
		return
	}
	if samples == nil {
		samples = []core.SEIRSample{}
	}
	writeJSON(w, http.StatusOK, samples)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
