package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

func setupAuthRouter() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(testSecret))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"owner_id": c.GetString(OwnerIDKey)})
	})
	return r
}

func doAuthRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func signClaims(t *testing.T, claims *JWTClaims, secret []byte) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	valid, err := GenerateAccessToken(testSecret, "alice", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	expired, err := GenerateAccessToken(testSecret, "alice", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	foreign, err := GenerateAccessToken([]byte("other-secret"), "alice", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	refresh := signClaims(t, &JWTClaims{
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, testSecret)
	noSubject := signClaims(t, &JWTClaims{
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, testSecret)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid_token", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "missing_header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong_scheme", header: "Basic " + valid, wantStatus: http.StatusUnauthorized},
		{name: "extra_parts", header: "Bearer " + valid + " extra", wantStatus: http.StatusUnauthorized},
		{name: "expired_token", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "wrong_secret", header: "Bearer " + foreign, wantStatus: http.StatusUnauthorized},
		{name: "refresh_token_rejected", header: "Bearer " + refresh, wantStatus: http.StatusUnauthorized},
		{name: "missing_subject", header: "Bearer " + noSubject, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doAuthRequest(setupAuthRouter(), tt.header)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := parseBody(t, rec)
			if tt.wantStatus == http.StatusOK {
				if body["owner_id"] != "alice" {
					t.Errorf("owner_id = %v, want alice", body["owner_id"])
				}
				return
			}
			errObj, ok := body["error"].(map[string]interface{})
			if !ok || errObj["code"] != "UNAUTHORIZED" {
				t.Errorf("expected UNAUTHORIZED error, got %v", body)
			}
		})
	}
}

func TestGenerateAccessTokenRequiresOwner(t *testing.T) {
	if _, err := GenerateAccessToken(testSecret, "", time.Hour); err == nil {
		t.Error("expected an error for an empty owner")
	}
}
