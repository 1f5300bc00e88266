// Package server exposes product sheets as PDF downloads over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ByLCY/winesheet/logging"
	"github.com/ByLCY/winesheet/product"
	"github.com/ByLCY/winesheet/sheet"
	"github.com/ByLCY/winesheet/store"
)

// Generator renders a product into a document. *sheet.Generator implements it.
type Generator interface {
	Generate(ctx context.Context, p *product.Product) (*sheet.Document, error)
}

type Server struct {
	products  store.ProductRepository
	generator Generator
	labels    sheet.Labels
	timeout   time.Duration
	logger    *zap.Logger

	// 同一产品的并发请求共享一次生成
	inflight singleflight.Group
}

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLabels sets the language of error messages.
func WithLabels(l sheet.Labels) Option {
	return func(s *Server) { s.labels = l }
}

// WithGenerateTimeout bounds a single generation, lookup and image fetch included.
func WithGenerateTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func New(products store.ProductRepository, generator Generator, opts ...Option) *Server {
	s := &Server{
		products:  products,
		generator: generator,
		labels:    sheet.Finnish(),
		timeout:   30 * time.Second,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/wines/{slug}/pdf", s.handleBySlug)
	r.Get("/products/{id}/pdf", s.handleByID)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	s.serveSheet(w, r, "slug:"+slug, func(ctx context.Context) (*product.Product, error) {
		return s.products.GetBySlug(ctx, slug)
	})
}

func (s *Server) handleByID(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("invalid product id %q", raw)})
		return
	}
	s.serveSheet(w, r, "id:"+raw, func(ctx context.Context) (*product.Product, error) {
		return s.products.GetByID(ctx, id)
	})
}

func (s *Server) serveSheet(w http.ResponseWriter, r *http.Request, key string, lookup func(context.Context) (*product.Product, error)) {
	ctx := r.Context()
	log := logging.FromContext(ctx)

	ch := s.inflight.DoChan(key, func() (any, error) {
		// 生成过程不随首个请求取消，其他等待者仍需要结果
		genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		p, err := lookup(genCtx)
		if err != nil {
			return nil, err
		}
		return s.generator.Generate(genCtx, p)
	})

	select {
	case <-ctx.Done():
		log.Info("client went away before the sheet was ready", zap.String("key", key))
		return
	case res := <-ch:
		if res.Err != nil {
			s.writeError(w, log, key, res.Err)
			return
		}
		doc := res.Val.(*sheet.Document)
		if res.Shared {
			log.Debug("served shared generation", zap.String("key", key))
		}
		writeDocument(w, doc)
	}
}

func writeDocument(w http.ResponseWriter, doc *sheet.Document) {
	h := w.Header()
	h.Set("Content-Type", doc.ContentType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	h.Set("Content-Length", strconv.Itoa(len(doc.Data)))
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Data)
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, log *zap.Logger, key string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "product not found"})
		return
	}
	log.Error("sheet request failed", zap.String("key", key), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: s.labels.GenerationFailed})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// requestLogger 记录每个请求，并把带 request_id 的 logger 放进 context。
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqLogger := s.logger.With(
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(logging.WithContext(r.Context(), reqLogger)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", r.RemoteAddr),
			zap.Int("body_size", ww.BytesWritten()),
		}
		switch {
		case status >= 500:
			reqLogger.Error("http request", fields...)
		case status >= 400:
			reqLogger.Warn("http request", fields...)
		default:
			reqLogger.Info("http request", fields...)
		}
	})
}

// HTTPConfig holds listener settings for ListenAndServe.
type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg HTTPConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
