package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/reweave-ai/reweave/models"
)

func newAuthRouter(apiKeys []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(apiKeys))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"key": c.GetString("api_key")})
	})
	return r
}

func doGet(t *testing.T, r *gin.Engine, header, value string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_NoKeysConfiguredIsOpen(t *testing.T) {
	r := newAuthRouter(nil)

	if w := doGet(t, r, "", ""); w.Code != http.StatusOK {
		t.Errorf("open access expected without configured keys, got %d", w.Code)
	}
}

func TestAuth_AcceptsXAPIKey(t *testing.T) {
	r := newAuthRouter([]string{"secret-1", "secret-2"})

	if w := doGet(t, r, "X-API-Key", "secret-2"); w.Code != http.StatusOK {
		t.Errorf("valid X-API-Key rejected: %d", w.Code)
	}
}

func TestAuth_AcceptsBearer(t *testing.T) {
	r := newAuthRouter([]string{"secret-1"})

	if w := doGet(t, r, "Authorization", "Bearer secret-1"); w.Code != http.StatusOK {
		t.Errorf("valid Bearer key rejected: %d", w.Code)
	}
}

func TestAuth_RejectsMissingKey(t *testing.T) {
	r := newAuthRouter([]string{"secret-1"})

	w := doGet(t, r, "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing key should be 401, got %d", w.Code)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Success || resp.Error == nil || resp.Error.Code != models.ErrCodeUnauthorized {
		t.Errorf("error envelope = %+v", resp)
	}
}

func TestAuth_RejectsInvalidKey(t *testing.T) {
	r := newAuthRouter([]string{"secret-1"})

	if w := doGet(t, r, "X-API-Key", "wrong"); w.Code != http.StatusUnauthorized {
		t.Errorf("invalid key should be 401, got %d", w.Code)
	}
	if w := doGet(t, r, "Authorization", "Bearer wrong"); w.Code != http.StatusUnauthorized {
		t.Errorf("invalid Bearer key should be 401, got %d", w.Code)
	}
}
