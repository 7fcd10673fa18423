// Package relay is the small backend the app talks to: a Notion page-create
// proxy, an audio transcription proxy and the per-user preference record.
// It also contains the client the CLI uses to reach it.
package relay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"
	"github.com/gin-gonic/gin"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

// Routes served by the relay.
const (
	PathSendToNotion = "/functions/v1/send-to-notion"
	PathTranscribe   = "/functions/v1/transcribe-audio"
	PathPreferences  = "/rest/v1/preferences"

	// HeaderUserID identifies the user for the preference record.
	HeaderUserID = "X-User-Id"
)

// NotionAPI creates Notion pages upstream.
type NotionAPI interface {
	CreatePage(ctx context.Context, page core.NotionPage) (json.RawMessage, error)
}

// Server is the relay HTTP server.
type Server struct {
	router      *gin.Engine
	notion      NotionAPI
	transcriber core.Transcriber
	prefs       core.RemotePreferences
	logger      *slog.Logger

	requests atomic.Int64
	failures atomic.Int64
	addr     atomic.Value
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithNotionAPI sets the upstream Notion client.
func WithNotionAPI(n NotionAPI) ServerOption {
	return func(s *Server) { s.notion = n }
}

// WithTranscriber sets the upstream transcription client.
func WithTranscriber(t core.Transcriber) ServerOption {
	return func(s *Server) { s.transcriber = t }
}

// WithPreferenceStore sets the preference record storage.
func WithPreferenceStore(p core.RemotePreferences) ServerOption {
	return func(s *Server) { s.prefs = p }
}

// WithServerLogger sets the logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type notionResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type transcribeRequest struct {
	Audio string `json:"audio"`
}

type transcribeResponse struct {
	Text string `json:"text"`
}

type preferenceBody struct {
	StorageService string     `json:"storage_service"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// NewServer creates a relay server. Endpoints whose backend is not set answer
// 503.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger(), corsHeaders())
	s.router = router

	functions := router.Group("/functions/v1")
	{
		functions.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusOK) })
		functions.POST("/send-to-notion", s.handleSendToNotion)
		functions.POST("/transcribe-audio", s.handleTranscribe)
	}

	rest := router.Group("/rest/v1")
	{
		rest.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusOK) })
		rest.GET("/preferences", s.handleGetPreferences)
		rest.PUT("/preferences", s.handlePutPreferences)
	}

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.addr.Store(ln.Addr().String())

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
		return err
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("relay server stopped", "error", err)
	}))

	s.logger.Info("relay listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down relay: %w", err)
	}
	select {
	case err := <-errCh:
		return err
	case <-shutdownCtx.Done():
		return shutdownCtx.Err()
	}
}

// Addr is the bound listen address once Serve is running.
func (s *Server) Addr() string {
	v, _ := s.addr.Load().(string)
	return v
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	s.failures.Add(1)
	c.JSON(status, errorResponse{Error: err.Error()})
}

func (s *Server) handleSendToNotion(c *gin.Context) {
	if s.notion == nil {
		s.fail(c, http.StatusServiceUnavailable, errors.New("notion relay not configured"))
		return
	}

	var page core.NotionPage
	if err := c.ShouldBindJSON(&page); err != nil {
		s.fail(c, http.StatusInternalServerError, fmt.Errorf("invalid request: %w", err))
		return
	}
	if strings.TrimSpace(page.APIKey) == "" || strings.TrimSpace(page.DatabaseID) == "" {
		s.fail(c, http.StatusInternalServerError, errors.New("Missing Notion credentials"))
		return
	}

	data, err := s.notion.CreatePage(c.Request.Context(), page)
	if err != nil {
		s.logger.Error("notion API error", "error", err)
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, notionResponse{Success: true, Data: data})
}

func (s *Server) handleTranscribe(c *gin.Context) {
	if s.transcriber == nil {
		s.fail(c, http.StatusServiceUnavailable, errors.New("transcription not configured"))
		return
	}

	var req transcribeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Audio == "" {
		s.fail(c, http.StatusBadRequest, errors.New("No audio data provided"))
		return
	}
	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid audio encoding: %w", err))
		return
	}

	text, err := s.transcriber.Transcribe(c.Request.Context(), audio)
	if err != nil {
		s.logger.Error("transcription failed", "error", err)
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, transcribeResponse{Text: text})
}

func (s *Server) userID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.GetHeader(HeaderUserID))
	if id == "" {
		s.fail(c, http.StatusUnauthorized, fmt.Errorf("missing %s header", HeaderUserID))
		return "", false
	}
	return id, true
}

func (s *Server) handleGetPreferences(c *gin.Context) {
	if s.prefs == nil {
		s.fail(c, http.StatusServiceUnavailable, errors.New("preferences not configured"))
		return
	}
	id, ok := s.userID(c)
	if !ok {
		return
	}

	rec, err := s.prefs.Load(c.Request.Context(), id)
	if errors.Is(err, core.ErrNotFound) {
		s.fail(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handlePutPreferences(c *gin.Context) {
	if s.prefs == nil {
		s.fail(c, http.StatusServiceUnavailable, errors.New("preferences not configured"))
		return
	}
	id, ok := s.userID(c)
	if !ok {
		return
	}

	var body preferenceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return
	}
	dest, err := core.ParseDestination(body.StorageService)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}

	rec := core.RemoteRecord{StorageService: dest.String(), UpdatedAt: time.Now().UTC()}
	if body.UpdatedAt != nil && !body.UpdatedAt.IsZero() {
		rec.UpdatedAt = body.UpdatedAt.UTC()
	}
	if err := s.prefs.Store(c.Request.Context(), id, rec); err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// ServerState is the introspection snapshot.
type ServerState struct {
	Addr          string `json:"addr,omitempty"`
	Requests      int64  `json:"requests"`
	Failures      int64  `json:"failures"`
	Notion        bool   `json:"notion"`
	Transcription bool   `json:"transcription"`
	Preferences   bool   `json:"preferences"`
}

// State implements introspection.Introspectable.
func (s *Server) State() any {
	return ServerState{
		Addr:          s.Addr(),
		Requests:      s.requests.Load(),
		Failures:      s.failures.Load(),
		Notion:        s.notion != nil,
		Transcription: s.transcriber != nil,
		Preferences:   s.prefs != nil,
	}
}

// ComponentType implements introspection.Component.
func (s *Server) ComponentType() string {
	return "relay"
}

var (
	_ introspection.Introspectable = (*Server)(nil)
	_ introspection.Component      = (*Server)(nil)
)
