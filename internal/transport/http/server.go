// Package http is Antbox's JSON front door over NodeService: a small,
// real echo server wired for create/get/update/delete/find, enough to
// exercise the transport the way a client would without claiming to be
// the full WebDAV/CMIS protocol surface (those stay
// named-interface-only). Standard-middleware server setup (logging,
// recover, CORS, rate limiting, request ID, graceful shutdown),
// narrowed to the routes NodeService needs.
package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/antbox/antbox/internal/authctx"
	"github.com/antbox/antbox/internal/nodeservice"
	"github.com/antbox/antbox/internal/obslog"
	"github.com/antbox/antbox/internal/result"
	"github.com/antbox/antbox/internal/workflow"
)

// Config holds the knobs this front door exposes.
type Config struct {
	Port           int
	Debug          bool
	BodyLimit      string
	AllowedOrigins []string
	RateLimit      float64 // requests/sec, 0 disables the limiter
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		BodyLimit:      "10M",
		AllowedOrigins: []string{"*"},
	}
}

// Server wraps an echo.Echo bound to a NodeService, and optionally a
// workflow engine (see RegisterWorkflows).
type Server struct {
	Echo   *echo.Echo
	Nodes  *nodeservice.Service
	Tokens *authctx.TokenService
	Flows  *workflow.Engine
}

// New builds a Server with standard middleware and the node route table
// registered under /nodes. Access logs go through internal/obslog's
// field conventions rather than echo's own text logger, so they land in
// the same structured stream as the rest of the process.
func New(cfg Config, nodes *nodeservice.Service, tokens *authctx.TokenService) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Debug

	log := obslog.For(obslog.New(obslog.Config{}), "antboxd-http")

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			ctx := authFrom(c)
			fields := obslog.RequestFields(c.Request().Method, c.Path(), c.Response().Status, ctx.Tenant, ctx.Principal.Email)
			fields["latency_ms"] = time.Since(start).Milliseconds()
			log.WithFields(fields).Info("request handled")
			return err
		}
	})
	e.Use(middleware.Recover())
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}
	if len(cfg.AllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-API-Key"},
		}))
	}
	e.Use(middleware.RequestID())
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit))))
	}
	e.HTTPErrorHandler = customErrorHandler

	s := &Server{Echo: e, Nodes: nodes, Tokens: tokens}
	s.routes()
	return s
}

func (s *Server) routes() {
	g := s.Echo.Group("/nodes", s.authMiddleware)
	g.POST("", s.handleCreate)
	g.GET("/:uuid", s.handleGet)
	g.PATCH("/:uuid", s.handleUpdate)
	g.DELETE("/:uuid", s.handleDelete)
	g.GET("", s.handleFind)
	s.Echo.GET("/healthz", s.handleHealth)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// Start runs the server until ctx is cancelled, then shuts it down
// gracefully, as one blocking call for cmd/antboxd's use.
func (s *Server) Start(ctx context.Context, port int) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Echo.Start(fmt.Sprintf(":%d", port))
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Echo.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

type errorResponse struct {
	Error      string                  `json:"error"`
	Message    string                  `json:"message,omitempty"`
	Validation []result.PropertyError  `json:"validation,omitempty"`
}

func customErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := err.Error()
	var validation []result.PropertyError

	if rerr, ok := err.(*result.Error); ok {
		code = statusForCode(rerr.Code)
		msg = rerr.Message
		validation = rerr.Validation
	} else if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	if !c.Response().Committed {
		_ = c.JSON(code, errorResponse{Error: http.StatusText(code), Message: msg, Validation: validation})
	}
}

func statusForCode(code result.Code) int {
	switch code {
	case result.CodeNodeNotFound, result.CodeNodeFileNotFound:
		return http.StatusNotFound
	case result.CodeDuplicatedNode, result.CodeValidationError, result.CodeBadRequest:
		return http.StatusBadRequest
	case result.CodeForbiddenError:
		return http.StatusForbidden
	case result.CodeUnauthorized:
		return http.StatusUnauthorized
	case result.CodeNodeTypeError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func parsePage(c echo.Context) (pageSize, pageToken int) {
	pageSize, pageToken = 25, 1
	if v, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && v > 0 {
		pageSize = v
	}
	if v, err := strconv.Atoi(c.QueryParam("pageToken")); err == nil && v > 0 {
		pageToken = v
	}
	return
}
