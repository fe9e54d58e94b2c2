package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/easel/pkg/buildinfo"
	"github.com/matzehuels/easel/pkg/cache"
	"github.com/matzehuels/easel/pkg/errors"
	"github.com/matzehuels/easel/pkg/raster"
	"github.com/matzehuels/easel/pkg/scene"
	"github.com/matzehuels/easel/pkg/store"
)

const (
	// maxSceneBytes bounds request bodies on the render endpoints.
	maxSceneBytes = 1 << 20

	// defaultListLimit is the page size of the layout list endpoint.
	defaultListLimit = 20

	shutdownTimeout = 10 * time.Second
)

// serveOpts holds options for the serve command.
type serveOpts struct {
	addr     string
	redis    string
	mongoURI string
	mongoDB  string
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := &serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Serve starts an HTTP service that renders scene documents to PNG and
solves them to layout documents.

Rendered artifacts are cached in Redis when --redis is given, otherwise
in memory of the local file cache. Layout documents are persisted to
MongoDB when --mongo-uri is given; without it the layout endpoints
respond 503.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "redis address for the artifact cache (host:port)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "mongodb connection string for layout persistence")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", appName, "mongodb database name")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	artifacts, err := c.serviceCache(ctx, opts)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	var layouts *store.Store
	if opts.mongoURI != "" {
		layouts, err = store.Open(ctx, opts.mongoURI, opts.mongoDB)
		if err != nil {
			return err
		}
		defer layouts.Close(context.Background())
		logger.Info("layout store connected", "db", opts.mongoDB)
	}

	svc := &renderService{
		logger:  logger,
		cache:   artifacts,
		layouts: layouts,
	}

	server := &http.Server{
		Addr:    opts.addr,
		Handler: svc.router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", opts.addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// serviceCache picks the artifact cache backend: Redis when configured,
// the local file cache otherwise.
func (c *CLI) serviceCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.redis == "" {
		return newArtifactCache(false)
	}
	rc, err := cache.NewRedisCache(ctx, opts.redis)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("redis cache connected", "addr", opts.redis)
	return cache.Instrumented(cache.WithPrefix(rc, appName+":"), "redis"), nil
}

// renderService is the HTTP render and layout service.
type renderService struct {
	logger  *log.Logger
	cache   cache.Cache
	layouts *store.Store
}

// router assembles the chi route tree.
func (s *renderService) router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/layouts", s.handleCreateLayout)
		r.Get("/layouts", s.handleListLayouts)
		r.Get("/layouts/{id}", s.handleGetLayout)
		r.Delete("/layouts/{id}", s.handleDeleteLayout)
	})
	return r
}

// requestID tags every request with a UUID, echoed in the X-Request-ID
// response header.
func (s *renderService) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := withLogger(r.Context(), s.logger.With("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *renderService) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		loggerFromContext(r.Context()).Debug("request",
			"method", r.Method, "path", r.URL.Path,
			"elapsed", time.Since(start).Round(time.Microsecond))
	})
}

func (s *renderService) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleRender renders a TOML scene document from the request body to PNG.
func (s *renderService) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := io.ReadAll(io.LimitReader(r.Body, maxSceneBytes))
	if err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidScene, "read body: %v", err))
		return
	}

	sc, err := scene.Parse(data)
	if err != nil {
		writeError(w, err)
		return
	}

	key := cache.RenderKey(data, sc.Width, sc.Height)
	if png, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
		return
	}

	img, _, err := sc.Build()
	if err != nil {
		writeError(w, err)
		return
	}
	img.SetLogger(loggerFromContext(ctx))

	bitmap := raster.NewBitmap(sc.Width, sc.Height)
	if err := img.Render(ctx, bitmap); err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := bitmap.EncodePNG(&buf); err != nil {
		writeError(w, err)
		return
	}
	if err := s.cache.Set(ctx, key, buf.Bytes(), artifactTTL); err != nil {
		loggerFromContext(ctx).Debug("cache write failed", "err", err)
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// handleCreateLayout solves a TOML scene document and returns (and, when a
// store is configured, persists) the layout document.
func (s *renderService) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := io.ReadAll(io.LimitReader(r.Body, maxSceneBytes))
	if err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidScene, "read body: %v", err))
		return
	}

	sc, err := scene.Parse(data)
	if err != nil {
		writeError(w, err)
		return
	}
	img, byName, err := sc.Build()
	if err != nil {
		writeError(w, err)
		return
	}

	layout, err := scene.Snapshot(img, byName)
	if err != nil {
		writeError(w, err)
		return
	}

	if s.layouts != nil {
		if err := s.layouts.SaveLayout(ctx, layout); err != nil {
			writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, layout)
}

func (s *renderService) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	if s.layouts == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "layout store not configured"))
		return
	}
	layout, err := s.layouts.GetLayout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

func (s *renderService) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	if s.layouts == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "layout store not configured"))
		return
	}
	limit := int64(defaultListLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}
	layouts, err := s.layouts.ListLayouts(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"layouts": layouts})
}

func (s *renderService) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if s.layouts == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "layout store not configured"))
		return
	}
	if err := s.layouts.DeleteLayout(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError maps structured error codes to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidScene, errors.ErrCodeInvalidFix, errors.ErrCodeInvalidPoint,
		errors.ErrCodeInvalidColor, errors.ErrCodeUnderconstrained, errors.ErrCodeSingularSystem:
		status = http.StatusBadRequest
	case errors.ErrCodeLayoutNotFound, errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeUnsupported:
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}
