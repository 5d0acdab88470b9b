package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/amosov/userdir/src/middleware"
)

// Test helpers for handler tests

const testJWTSecret = "test-secret-for-unit-tests-32ch!"

// setupTestAuth installs a JWT secret for the duration of a test
func setupTestAuth(t *testing.T) {
	t.Helper()

	original := middleware.JWTSecret
	if err := middleware.SetJWTSecret(testJWTSecret); err != nil {
		t.Fatalf("SetJWTSecret failed: %v", err)
	}
	t.Cleanup(func() { middleware.JWTSecret = original })
}

// newTestRouter creates a gin router in test mode
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// postForm performs a form-encoded POST against the router
func postForm(router *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	router.ServeHTTP(w, req)
	return w
}

// get performs a GET against the router
func get(router *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	router.ServeHTTP(w, req)
	return w
}

// adminCookie mints a valid admin session cookie
func adminCookie(t *testing.T, adminID int64, username string) *http.Cookie {
	t.Helper()
	token, err := middleware.GenerateAdminToken(adminID, username)
	if err != nil {
		t.Fatalf("GenerateAdminToken failed: %v", err)
	}
	return &http.Cookie{Name: middleware.AdminTokenCookie, Value: token}
}

// userCookie mints a valid user session cookie
func userCookie(t *testing.T, userID int64, email string) *http.Cookie {
	t.Helper()
	token, err := middleware.GenerateUserToken(userID, email)
	if err != nil {
		t.Fatalf("GenerateUserToken failed: %v", err)
	}
	return &http.Cookie{Name: middleware.UserTokenCookie, Value: token}
}

// assertStatusCode checks if response status code matches expected
func assertStatusCode(t *testing.T, w *httptest.ResponseRecorder, expectedCode int) {
	t.Helper()
	if w.Code != expectedCode {
		t.Errorf("expected status %d, got %d: %s", expectedCode, w.Code, w.Body.String())
	}
}

// parseJSON unmarshals the response body into a generic map
func parseJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return response
}
