package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fundamental/pkg/buildinfo"
	"github.com/matzehuels/fundamental/pkg/crawl"
	ferrors "github.com/matzehuels/fundamental/pkg/errors"
	"github.com/matzehuels/fundamental/pkg/observability"
	"github.com/matzehuels/fundamental/pkg/pipeline"
	"github.com/matzehuels/fundamental/pkg/report"
)

const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve funding reports over HTTP",
		Long: `Start an HTTP server that runs scans on demand.

Endpoints:
  GET /healthz
  GET /metricsz
  GET /api/v1/crates/{name}/funding?dev=true&max_depth=3&sort=sponsors&order=asc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default 127.0.0.1:8080)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg Config) error {
	svc, err := c.newServices(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer svc.Close()

	// Counters take over from the --verbose log hooks for the server's lifetime.
	counters := &observability.Counters{}
	observability.SetAll(counters)
	defer observability.Reset()

	s := &server{
		runner:   svc.runner(crawl.NewCrates(svc.crates, false), c.Logger, false),
		cfg:      cfg,
		logger:   c.Logger,
		counters: counters,
	}
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Listen)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// server answers funding queries with a shared pipeline runner. The runner's
// API clients cache responses, so repeated queries are cheap.
type server struct {
	runner   *pipeline.Runner
	cfg      Config
	logger   *log.Logger
	counters *observability.Counters
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/metricsz", s.handleMetrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/crates/{name}/funding", s.handleFunding)
	})
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.counters.Snapshot())
}

func (s *server) handleFunding(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := ferrors.ValidateCrateName(name); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts, err := s.fundingOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	opts.Root = name

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		status := http.StatusInternalServerError
		if ferrors.IsFatal(err) {
			status = http.StatusBadRequest
		}
		s.logger.Error("scan failed", "crate", name, "request", middleware.GetReqID(r.Context()), "error", err)
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Report)
}

// fundingOptions reads scan settings from the query string, falling back to
// the server's configuration.
func (s *server) fundingOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		MaxDepth:   s.cfg.MaxDepth,
		IncludeDev: s.cfg.Dev,
		Workers:    s.cfg.Workers,
	}

	if v := q.Get("dev"); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return opts, ferrors.New(ferrors.ErrCodeInvalidInput, "invalid dev value %q", v)
		}
		opts.IncludeDev = dev
	}
	if v := q.Get("max_depth"); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil {
			return opts, ferrors.New(ferrors.ErrCodeInvalidInput, "invalid max_depth %q", v)
		}
		opts.MaxDepth = depth
	}

	field, order := s.cfg.Sort, s.cfg.Order
	if v := q.Get("sort"); v != "" {
		field, order = v, ""
	}
	if v := q.Get("order"); v != "" {
		order = v
	}
	sort, err := report.ParseSortOptions(field, order)
	if err != nil {
		return opts, err
	}
	opts.Sort = sort
	return opts, nil
}

type errorResponse struct {
	Error string       `json:"error"`
	Code  ferrors.Code `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{
		Error: ferrors.UserMessage(err),
		Code:  ferrors.GetCode(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
