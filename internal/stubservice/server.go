// Package stubservice is a local, in-memory implementation of the analysis
// service HTTP contract. It backs the `stub` command and the client tests.
package stubservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/document"
)

const (
	uploadMessage   = "Resume uploaded and processed successfully"
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "requestId"
)

// Server serves the analysis contract from memory.
type Server struct {
	engine   *gin.Engine
	store    *Store
	analyzer Analyzer
	logger   *slog.Logger
}

// Option customizes a Server
type Option func(*Server)

// WithAnalyzer replaces the heuristic analyzer
func WithAnalyzer(a Analyzer) Option {
	return func(s *Server) {
		if a != nil {
			s.analyzer = a
		}
	}
}

// WithStore shares a store between servers
func WithStore(store *Store) Option {
	return func(s *Server) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets the access logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds the gin engine with routes registered.
func New(opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		store:    NewStore(),
		analyzer: HeuristicAnalyzer{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(requestID(), s.accessLog(), gin.Recovery())

	apiGroup := r.Group("/api")
	apiGroup.POST("/upload", s.upload)
	apiGroup.GET("/resumes", s.listResumes)
	apiGroup.GET("/resumes/:id", s.getResume)

	s.engine = r
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Store returns the backing store
func (s *Server) Store() *Store {
	return s.store
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type summaryJSON struct {
	ID       int64   `json:"id"`
	Filename string  `json:"filename"`
	Name     *string `json:"name"`
}

type detailJSON struct {
	ID        int64             `json:"id"`
	Filename  string            `json:"filename"`
	Name      *string           `json:"name"`
	Extracted api.ExtractedData `json:"extracted_data"`
	Feedback  api.Feedback      `json:"llm_analysis"`
}

func (s *Server) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		validationError(c, "body", "file", "field required")
		return
	}
	if fh.Header.Get("Content-Type") != document.ContentType {
		detail(c, http.StatusBadRequest, "Only PDF files are allowed.")
		return
	}
	if fh.Size > document.MaxSize {
		detail(c, http.StatusRequestEntityTooLarge, "File is too large.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		detail(c, http.StatusBadRequest, fmt.Sprintf("Error reading PDF: %v", err))
		return
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, document.MaxSize))
	if err != nil {
		detail(c, http.StatusBadRequest, fmt.Sprintf("Error reading PDF: %v", err))
		return
	}

	extracted, feedback, err := s.analyzer.Analyze(c.Request.Context(), fh.Filename, data)
	switch {
	case errors.Is(err, ErrUnreadable):
		detail(c, http.StatusBadRequest, fmt.Sprintf("Error reading PDF: %v", err))
		return
	case err != nil:
		s.logger.Warn("analysis failed",
			slog.String("filename", fh.Filename),
			slog.String("error", err.Error()),
			slog.String("request_id", c.GetString(requestIDKey)))
		c.JSON(http.StatusOK, gin.H{
			"message": uploadMessage,
			"analysis": gin.H{
				"error": "LLM extraction failed: " + err.Error(),
				"raw":   "No raw output available",
			},
		})
		return
	}

	id := s.store.Add(fh.Filename, extracted, feedback)
	c.JSON(http.StatusOK, gin.H{
		"message": uploadMessage,
		"id":      id,
		"analysis": gin.H{
			"extracted_data": extracted,
			"llm_analysis":   feedback,
		},
	})
}

func (s *Server) listResumes(c *gin.Context) {
	entries := s.store.list()
	out := make([]summaryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, summaryJSON{ID: e.id, Filename: e.filename, Name: nameOf(e)})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getResume(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		validationError(c, "path", "resume_id", "value is not a valid integer")
		return
	}

	e, ok := s.store.get(id)
	if !ok {
		detail(c, http.StatusNotFound, "Resume not found")
		return
	}

	c.JSON(http.StatusOK, detailJSON{
		ID:        e.id,
		Filename:  e.filename,
		Name:      nameOf(e),
		Extracted: e.extracted,
		Feedback:  e.feedback,
	})
}

func nameOf(e *entry) *string {
	name := e.extracted.Name.String()
	if name == "" {
		return nil
	}
	return &name
}

// detail writes the service's {"detail": "..."} error body.
func detail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": message})
}

// validationError mirrors the list-shaped detail of request validation
// failures. Clients are expected to fall back to a generic message.
func validationError(c *gin.Context, location, field, msg string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
		"detail": []gin.H{{
			"loc":  []string{location, field},
			"msg":  msg,
			"type": "value_error",
		}},
	})
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("request_id", c.GetString(requestIDKey)))
	}
}
