package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/shopgraph/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newResponseTestContext creates a gin context backed by an httptest.ResponseRecorder.
func newResponseTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return resp
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", domain.NewAppError(domain.CodeNotFound, "product not found", nil), http.StatusNotFound, "product not found"},
		{"conflict", domain.ErrAlreadyExists, http.StatusConflict, "already exists"},
		{"validation", domain.NewAppError(domain.CodeValidation, "invalid id", nil), http.StatusBadRequest, "invalid id"},
		{"unauthorized", domain.NewAppError(domain.CodeUnauthorized, "invalid token", nil), http.StatusUnauthorized, "invalid token"},
		{"internal hides cause", domain.NewAppError(domain.CodeInternal, "database error", errors.New("disk full")), http.StatusInternalServerError, "internal error"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newResponseTestContext()
			Error(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d; want %d", w.Code, tt.wantStatus)
			}
			resp := decodeResponse(t, w)
			if resp.Code != tt.wantStatus {
				t.Errorf("Code = %d; want %d", resp.Code, tt.wantStatus)
			}
			if resp.Message != tt.wantMsg {
				t.Errorf("Message = %q; want %q", resp.Message, tt.wantMsg)
			}
			if resp.Data != nil {
				t.Errorf("Data = %v; want nil", resp.Data)
			}
		})
	}
}

func TestAbort(t *testing.T) {
	c, w := newResponseTestContext()
	Abort(c, http.StatusTooManyRequests, "too many requests")

	if !c.IsAborted() {
		t.Error("context should be aborted")
	}
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusTooManyRequests)
	}
	resp := decodeResponse(t, w)
	if resp.Message != "too many requests" {
		t.Errorf("Message = %q; want %q", resp.Message, "too many requests")
	}
}
