package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodlink/globals"
	"foodlink/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func signToken(t *testing.T, userID, role string, expiry time.Duration) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuthenticateSetsIdentity(t *testing.T) {
	var gotUser, gotRole string
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUser = utils.GetUserIDFromRequest(r)
		gotRole = string(utils.GetRoleFromRequest(r))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u123", "STUDENT", time.Hour))
	rec := httptest.NewRecorder()

	handler(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUser != "u123" {
		t.Errorf("user id = %q, want u123", gotUser)
	}
	if gotRole != "STUDENT" {
		t.Errorf("role = %q, want STUDENT", gotRole)
	}
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	rec := httptest.NewRecorder()

	handler(rec, req, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u123", "STUDENT", -time.Hour))
	rec := httptest.NewRecorder()

	handler(rec, req, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateRejectsBadFormat(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	req.Header.Set("Authorization", signToken(t, "u123", "STUDENT", time.Hour))
	rec := httptest.NewRecorder()

	handler(rec, req, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestOptionalAuthProceedsWithoutToken(t *testing.T) {
	called := false
	handler := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
		if id := utils.GetUserIDFromRequest(r); id != "" {
			t.Errorf("user id = %q, want empty", id)
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/messes", nil)
	rec := httptest.NewRecorder()

	handler(rec, req, nil)
	if !called {
		t.Fatal("handler was not called")
	}
}

func TestValidateJWTRoundTrip(t *testing.T) {
	header := "Bearer " + signToken(t, "u456", "MESS_OWNER", time.Hour)
	claims, err := ValidateJWT(header)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != "u456" || claims.Role != "MESS_OWNER" {
		t.Errorf("claims = %s/%s, want u456/MESS_OWNER", claims.UserID, claims.Role)
	}
}
