package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"sitework/internal/domain/models"
	"sitework/internal/httputil"
)

// stubVerifier accepts one fixed token and rejects everything else.
type stubVerifier struct {
	token  string
	claims *models.AccessClaims
}

func (s *stubVerifier) VerifyToken(tokenString string) (*models.AccessClaims, error) {
	if tokenString != s.token {
		return nil, fmt.Errorf("unknown token")
	}
	return s.claims, nil
}

func (s *stubVerifier) Close() error { return nil }

func newStubVerifier() *stubVerifier {
	return &stubVerifier{
		token: "good-token",
		claims: &models.AccessClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
			Email:            "pm@acme.test",
			Role:             models.RoleCompanyAdmin,
			CompanyID:        "c1",
		},
	}
}

func TestAuthRejectsMissingOrBadTokens(t *testing.T) {
	handler := Auth(newStubVerifier())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not bearer", header: "Basic abc123"},
		{name: "empty bearer", header: "Bearer "},
		{name: "rejected token", header: "Bearer bad-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}

			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}
			if body["success"] != false {
				t.Errorf("success = %v, want false", body["success"])
			}
			if body["error"] != "Authentication required" {
				t.Errorf("error = %q, want %q", body["error"], "Authentication required")
			}
		})
	}
}

func TestAuthAttachesCaller(t *testing.T) {
	var got models.AuthContext
	var ok bool
	handler := Auth(newStubVerifier())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = httputil.GetAuth(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !ok {
		t.Fatal("handler saw no auth context")
	}
	if got.UserID != "user-1" || got.Role != models.RoleCompanyAdmin || got.CompanyID != "c1" {
		t.Errorf("auth context = %+v", got)
	}
}

func TestAuthSkipsPublicPaths(t *testing.T) {
	handler := Auth(newStubVerifier())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 without token", rec.Code)
	}
}
