package http

import (
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"soulengine/internal/domain"
	"soulengine/internal/service"
)

func newTestRouter(t *testing.T) (*service.AuthService, *service.JWTService) {
	t.Helper()
	store := service.NewMemoryOperatorStore()
	jwtSvc := service.NewJWTServiceWithStore("secret", 15*time.Minute, 30*time.Minute, service.NewMemoryRefreshTokenStore())
	auth := service.NewAuthService(store, jwtSvc)
	if err := auth.Provision("operator-1", "shared-secret"); err != nil {
		t.Fatalf("provision: %v", err)
	}
	return auth, jwtSvc
}

func TestNewRouter_PublicAuthRoutesAreUnprotected(t *testing.T) {
	auth, jwtSvc := newTestRouter(t)
	authH := NewAuthHandler(zap.NewNop(), auth, jwtSvc)
	charH := newTestCharacterHandler()
	r := NewRouter(zap.NewNop(), authH, charH, jwtSvc)

	rec := doJSON(r, http.MethodPost, "/auth/login", map[string]string{"name": "operator-1", "secret": "shared-secret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from an unauthenticated login, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_CharacterRoutesRequireAuth(t *testing.T) {
	auth, jwtSvc := newTestRouter(t)
	authH := NewAuthHandler(zap.NewNop(), auth, jwtSvc)
	charH := newTestCharacterHandler()
	r := NewRouter(zap.NewNop(), authH, charH, jwtSvc)

	rec := doJSON(r, http.MethodGet, "/characters/char-1", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a bearer token, got %d", rec.Code)
	}
}

func TestNewRouter_CharacterRoutesAcceptValidToken(t *testing.T) {
	auth, jwtSvc := newTestRouter(t)
	authH := NewAuthHandler(zap.NewNop(), auth, jwtSvc)
	charH := newTestCharacterHandler()
	r := NewRouter(zap.NewNop(), authH, charH, jwtSvc)

	op := domain.Operator{ID: "operator-1", Name: "operator-1", CreatedAt: time.Now().UTC()}
	pair, err := jwtSvc.GeneratePair(op)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	req := doJSONRequest(http.MethodPost, "/characters", map[string]any{
		"id": "char-1", "personality": string(domain.PersonalityDefault),
	})
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := serveRequest(r, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 with a valid token, got %d: %s", rec.Code, rec.Body.String())
	}
}
