package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
)

func setupLoggerRouter(log *slog.Logger, requestID gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(requestID)
	r.Use(Logger(log))

	r.POST("/graphql", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.POST("/unauthorized", func(c *gin.Context) {
		c.String(http.StatusUnauthorized, "no")
	})
	r.POST("/error", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "error")
	})
	return r
}

func TestLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		path  string
		level string
	}{
		{"/graphql", "level=INFO"},
		{"/unauthorized", "level=WARN"},
		{"/error", "level=ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var logBuf bytes.Buffer
			r := setupLoggerRouter(newTestLogger(&logBuf), RequestID())
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, tt.path, nil))

			if !strings.Contains(logBuf.String(), tt.level) {
				t.Errorf("expected %s, got:\n%s", tt.level, logBuf.String())
			}
		})
	}
}

func TestLogger_ContainsExpectedFields(t *testing.T) {
	var logBuf bytes.Buffer
	r := setupLoggerRouter(newTestLogger(&logBuf), RequestID())
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/graphql", nil))

	out := logBuf.String()
	for _, field := range []string{"msg=request", "method=POST", "path=/graphql", "status=200", "bytes=2", "latency=", "client_ip="} {
		if !strings.Contains(out, field) {
			t.Errorf("expected log to contain %q, got:\n%s", field, out)
		}
	}
}

func TestLogger_IncludesRequestIDFromContext(t *testing.T) {
	var logBuf bytes.Buffer
	log, err := logger.New(
		logger.WithConsoleWriter(&logBuf),
		logger.WithConsoleFormat(logger.FormatText),
		logger.WithConsoleColor(false),
		logger.WithLevel(slog.LevelDebug),
		logger.WithMiddleware(logger.ContextMiddleware()),
	)
	if err != nil {
		t.Fatalf("logger.New error: %v", err)
	}
	defer log.Close()

	r := setupLoggerRouter(log.Logger, RequestIDWithConfig(RequestIDConfig{TrustUpstream: true}))
	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set(requestIDHeader, "test-req-id-789")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(logBuf.String(), "test-req-id-789") {
		t.Errorf("expected log to contain request_id, got:\n%s", logBuf.String())
	}
}
