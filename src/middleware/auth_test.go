package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret-for-unit-tests-32ch!"

// withTestSecret installs a JWT secret for the duration of a test
func withTestSecret(t *testing.T) {
	t.Helper()

	originalSecret := JWTSecret
	if err := SetJWTSecret(testSecret); err != nil {
		t.Fatalf("SetJWTSecret failed: %v", err)
	}
	t.Cleanup(func() { JWTSecret = originalSecret })
}

func TestSetJWTSecret_RejectsShortSecret(t *testing.T) {
	if err := SetJWTSecret(""); err == nil {
		t.Error("expected error for empty secret")
	}
	if err := SetJWTSecret("short"); err == nil {
		t.Error("expected error for short secret")
	}
}

func TestGenerateAdminToken(t *testing.T) {
	withTestSecret(t)

	token, err := GenerateAdminToken(7, "root")
	if err != nil {
		t.Fatalf("GenerateAdminToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("Expected non-empty token")
	}

	// Parse and validate
	claims, err := ValidateAdminToken(token)
	if err != nil {
		t.Fatalf("ValidateAdminToken failed: %v", err)
	}

	if claims.AdminID != 7 {
		t.Errorf("Expected admin_id 7, got %d", claims.AdminID)
	}
	if claims.Username != "root" {
		t.Errorf("Expected username root, got %s", claims.Username)
	}
}

func TestGenerateUserToken(t *testing.T) {
	withTestSecret(t)

	token, err := GenerateUserToken(42, "jane@example.com")
	if err != nil {
		t.Fatalf("GenerateUserToken failed: %v", err)
	}

	claims, err := ValidateUserToken(token)
	if err != nil {
		t.Fatalf("ValidateUserToken failed: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("Expected user_id 42, got %d", claims.UserID)
	}
	if claims.Email != "jane@example.com" {
		t.Errorf("Expected email jane@example.com, got %s", claims.Email)
	}
}

func TestValidateAdminToken_RejectsUserToken(t *testing.T) {
	withTestSecret(t)

	token, err := GenerateUserToken(42, "jane@example.com")
	if err != nil {
		t.Fatalf("GenerateUserToken failed: %v", err)
	}

	// A user token must not pass the admin validator even under the same secret
	if _, err := ValidateAdminToken(token); err == nil {
		t.Error("expected user token to be rejected by admin validator")
	}
}

// runGuardedRequest sends a request through a guard middleware and returns
// the recorder
func runGuardedRequest(t *testing.T, guard gin.HandlerFunc, setup func(req *http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	_, router := gin.CreateTestContext(w)
	router.Use(guard)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if setup != nil {
		setup(req)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAdminAuthMiddleware_MissingToken(t *testing.T) {
	withTestSecret(t)

	w := runGuardedRequest(t, AdminAuthMiddleware(), nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestAdminAuthMiddleware_InvalidToken(t *testing.T) {
	withTestSecret(t)

	w := runGuardedRequest(t, AdminAuthMiddleware(), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer invalid_token")
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestAdminAuthMiddleware_ValidCookie(t *testing.T) {
	withTestSecret(t)

	token, err := GenerateAdminToken(1, "root")
	if err != nil {
		t.Fatalf("GenerateAdminToken failed: %v", err)
	}

	w := runGuardedRequest(t, AdminAuthMiddleware(), func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: AdminTokenCookie, Value: token})
	})
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUserAuthMiddleware_MissingToken(t *testing.T) {
	withTestSecret(t)

	w := runGuardedRequest(t, UserAuthMiddleware(), nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestUserAuthMiddleware_ValidCookie(t *testing.T) {
	withTestSecret(t)

	token, err := GenerateUserToken(5, "jane@example.com")
	if err != nil {
		t.Fatalf("GenerateUserToken failed: %v", err)
	}

	w := runGuardedRequest(t, UserAuthMiddleware(), func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: UserTokenCookie, Value: token})
	})
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}
