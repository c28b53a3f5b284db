// Package httpapi exposes a router over HTTP: JSON endpoints for routing and
// events, a websocket stream of transitions, and Prometheus metrics.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/comalice/staterouter/internal/core"
)

// Service serializes access to a single router. Routers are not safe for
// concurrent use, so every request holds the service lock.
type Service struct {
	mu       sync.Mutex
	router   *core.Router
	hub      *Hub
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

// NewService wraps router. hub and gatherer are optional; without them the
// events and metrics endpoints are not mounted.
func NewService(router *core.Router, hub *Hub, gatherer prometheus.Gatherer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{router: router, hub: hub, gatherer: gatherer, logger: logger}
}

// Router returns the router currently served.
func (s *Service) Router() *core.Router {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router
}

// Swap replaces the served router, typically after a config reload. The new
// router takes over the old position and sequence when the state still
// exists, then routes the old URL so any change in the tree is applied as
// a normal transition. If the URL no longer resolves it is started at its
// initial path instead.
func (s *Service) Swap(ctx context.Context, next *core.Router) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.router.Snapshot()
	if snap.Current != "" {
		if err := next.Restore(snap); err != nil {
			s.logger.Debug("snapshot not restorable into the new router", zap.Error(err))
		}
		err := next.Route(ctx, snap.URL)
		if err == nil {
			s.router = next
			return nil
		}
		s.logger.Warn("current URL does not resolve in the new config, restarting",
			zap.String("url", snap.URL), zap.Error(err))
	}
	if err := next.Start(ctx); err != nil {
		return err
	}
	s.router = next
	return nil
}

// StateResponse describes the router position.
type StateResponse struct {
	ID       string            `json:"id"`
	Version  string            `json:"version"`
	State    string            `json:"state"`
	URL      string            `json:"url"`
	Params   map[string]string `json:"params,omitempty"`
	Sequence uint64            `json:"sequence"`
}

// RouteRequest is the body of POST /v1/router/route.
type RouteRequest struct {
	Path string `json:"path" binding:"required"`
}

// EventRequest is the body of POST /v1/router/send and /v1/router/url.
type EventRequest struct {
	Event    string `json:"event" binding:"required"`
	Contexts []any  `json:"contexts"`
}

// URLResponse is returned by POST /v1/router/url.
type URLResponse struct {
	URL string `json:"url"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler builds the gin engine serving the API.
func (s *Service) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1/router")
	{
		v1.GET("/state", s.handleState)
		v1.POST("/route", s.handleRoute)
		v1.POST("/send", s.handleSend)
		v1.POST("/url", s.handleURL)
		v1.GET("/dot", s.handleDOT)
		if s.hub != nil {
			v1.GET("/events", s.hub.ServeWS)
		}
	}

	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
	return r
}

func (s *Service) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()))
	}
}

func (s *Service) handleState(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.state())
}

func (s *Service) handleRoute(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.router.Route(c.Request.Context(), req.Path); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.state())
}

func (s *Service) handleSend(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.router.Send(c.Request.Context(), req.Event, req.Contexts...); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.state())
}

func (s *Service) handleURL(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	url, err := s.router.URLForEvent(req.Event, req.Contexts...)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, URLResponse{URL: url})
}

func (s *Service) handleDOT(c *gin.Context) {
	s.mu.Lock()
	dot := s.router.Visualize()
	s.mu.Unlock()
	if dot == "" {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no visualizer configured"})
		return
	}
	c.Data(http.StatusOK, "text/vnd.graphviz; charset=utf-8", []byte(dot))
}

// state must be called with s.mu held.
func (s *Service) state() StateResponse {
	snap := s.router.Snapshot()
	resp := StateResponse{
		ID:       snap.RouterID,
		Version:  snap.ConfigVersion,
		State:    snap.Current,
		URL:      s.router.CurrentURL(),
		Sequence: snap.Sequence,
	}
	if len(snap.Context) > 0 {
		resp.Params = snap.Context.Snapshot()
	}
	return resp
}

func (s *Service) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("router operation failed", zap.Error(err))
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// StatusFor maps router errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNoMatchingRoute), errors.Is(err, core.ErrUnknownState):
		return http.StatusNotFound
	case errors.Is(err, core.ErrUnhandledEvent), errors.Is(err, core.ErrNoTransition),
		errors.Is(err, core.ErrAmbiguousHandler):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrMissingContext):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotStarted), errors.Is(err, core.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
