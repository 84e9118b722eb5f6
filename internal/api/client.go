package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yildizm/ResumeLens/internal/document"
)

const (
	DefaultBaseURL   = "http://localhost:8000"
	DefaultTimeout   = 2 * time.Minute
	DefaultUserAgent = "resumelens"

	// responses larger than this are treated as broken
	maxResponseSize = 8 << 20

	uploadPath  = "/api/upload"
	resumesPath = "/api/resumes"
)

// Config configures the analysis service client
type Config struct {
	BaseURL   string        `json:"base_url"`
	Timeout   time.Duration `json:"timeout"`
	UserAgent string        `json:"user_agent"`
}

// DefaultConfig returns a config pointing at a local service
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Validate checks the config
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(strings.TrimSpace(c.BaseURL))
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base URL %q: missing host", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	return nil
}

// Client talks to the remote analysis service. It holds no state between
// calls and performs exactly one HTTP request per operation.
type Client struct {
	baseURL   *url.URL
	client    *http.Client
	logger    *slog.Logger
	userAgent string
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds each request
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(ua)
	}
}

// NewClient creates a client for the service at baseURL with default settings
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	config := DefaultConfig()
	config.BaseURL = baseURL
	return New(config, opts...)
}

// New creates a client for the service at config.BaseURL
func New(config *Config, opts ...Option) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(strings.TrimRight(strings.TrimSpace(config.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	c := &Client{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: config.Timeout},
		logger:    slog.Default(),
		userAgent: config.UserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service address this client was built for
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Submit uploads doc for analysis and returns the resulting record.
func (c *Client) Submit(ctx context.Context, doc *document.Document) (*Record, error) {
	if doc == nil {
		return nil, newRequestError(OpSubmit, "", 0, errors.New("no document"))
	}

	body, contentType, err := encodeUpload(doc)
	if err != nil {
		return nil, newRequestError(OpSubmit, "", 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(uploadPath), body)
	if err != nil {
		return nil, newRequestError(OpSubmit, "", 0, err)
	}
	req.Header.Set("Content-Type", contentType)

	data, err := c.do(req, OpSubmit)
	if err != nil {
		return nil, err
	}

	var payload uploadPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, newRequestError(OpSubmit, "", http.StatusOK, fmt.Errorf("decode upload response: %w", err))
	}

	extracted, feedback, err := payload.Analysis.complete(OpSubmit)
	if err != nil {
		return nil, err
	}

	return &Record{
		ID:        payload.ID,
		Name:      extracted.Name.String(),
		Filename:  doc.Name,
		Extracted: extracted,
		Feedback:  feedback,
	}, nil
}

// ListHistory returns the stored analyses in service order.
func (c *Client) ListHistory(ctx context.Context) ([]Summary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(resumesPath), http.NoBody)
	if err != nil {
		return nil, newRequestError(OpHistory, "", 0, err)
	}

	data, err := c.do(req, OpHistory)
	if err != nil {
		return nil, err
	}

	var payload []summaryPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, newRequestError(OpHistory, "", http.StatusOK, fmt.Errorf("decode history response: %w", err))
	}

	summaries := make([]Summary, 0, len(payload))
	for _, p := range payload {
		s := Summary{ID: p.ID, Filename: p.Filename}
		if p.Name != nil {
			s.Name = strings.TrimSpace(*p.Name)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// FetchDetail returns the full record for id.
func (c *Client) FetchDetail(ctx context.Context, id ID) (*Record, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, newRequestError(OpDetail, "", 0, errors.New("empty id"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(resumesPath, url.PathEscape(string(id))), http.NoBody)
	if err != nil {
		return nil, newRequestError(OpDetail, "", 0, err)
	}

	data, err := c.do(req, OpDetail)
	if err != nil {
		return nil, err
	}

	var payload recordPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, newRequestError(OpDetail, "", http.StatusOK, fmt.Errorf("decode detail response: %w", err))
	}

	extracted, feedback, err := (&analysisPayload{Extracted: payload.Extracted, Feedback: payload.Feedback}).complete(OpDetail)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		ID:        payload.ID,
		Filename:  payload.Filename,
		Extracted: extracted,
		Feedback:  feedback,
	}
	if rec.ID == "" {
		rec.ID = id
	}
	if payload.Name != nil {
		rec.Name = strings.TrimSpace(*payload.Name)
	}
	return rec, nil
}

func (c *Client) endpoint(elem ...string) string {
	return c.baseURL.JoinPath(elem...).String()
}

// do sends req and returns the body of a 2xx response. Everything else
// becomes a *RequestError carrying the best available message.
func (c *Client) do(req *http.Request, op Op) ([]byte, error) {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("analysis service unreachable",
			slog.String("op", string(op)),
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		return nil, c.tag(newRequestError(op, "", 0, err), requestID)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, c.tag(newRequestError(op, "", resp.StatusCode, fmt.Errorf("read response: %w", err)), requestID)
	}

	c.logger.Debug("analysis service response",
		slog.String("op", string(op)),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", requestID),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := detailFromBody(body)
		c.logger.Warn("analysis service rejected request",
			slog.String("op", string(op)),
			slog.Int("status", resp.StatusCode),
			slog.String("detail", detail),
			slog.String("request_id", requestID))
		return nil, c.tag(newRequestError(op, detail, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)), requestID)
	}

	return body, nil
}

func (c *Client) tag(err *RequestError, requestID string) *RequestError {
	err.RequestID = requestID
	return err
}

// complete turns an analysis payload into the two halves of a Record,
// rejecting the service's error shape and incomplete bodies.
func (a *analysisPayload) complete(op Op) (ExtractedData, Feedback, error) {
	if a == nil {
		return ExtractedData{}, Feedback{}, newRequestError(op, "", http.StatusOK, errors.New("response has no analysis"))
	}
	if a.Error != "" {
		return ExtractedData{}, Feedback{}, newRequestError(op, a.Error, http.StatusOK, errors.New("analysis reported an error"))
	}
	if a.Feedback != nil && a.Feedback.Error != "" {
		return ExtractedData{}, Feedback{}, newRequestError(op, a.Feedback.Error, http.StatusOK, errors.New("feedback reported an error"))
	}
	if a.Extracted == nil || a.Feedback == nil {
		return ExtractedData{}, Feedback{}, newRequestError(op, "", http.StatusOK, errors.New("incomplete analysis"))
	}
	return *a.Extracted, a.Feedback.Feedback, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeUpload builds the multipart body with a single "file" part.
func encodeUpload(doc *document.Document) (io.Reader, string, error) {
	src, err := doc.Open()
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = src.Close() }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(doc.Name)))
	header.Set("Content-Type", document.ContentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("copy %s: %w", doc.Name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}

	return &buf, mw.FormDataContentType(), nil
}
