package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rajat93105-cell/pbl-project/internal/models"
	"github.com/rajat93105-cell/pbl-project/internal/services"
)

type fakeUsers map[string]models.User

func (f fakeUsers) GetUserByID(_ context.Context, id string) (models.User, error) {
	if id == "store-down" {
		return models.User{}, errors.New("database is locked")
	}
	u, ok := f[id]
	if !ok {
		return models.User{}, services.ErrNotFound
	}
	return u, nil
}

func newManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager("test-secret", "HS256", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}
	return m
}

func TestGenerateAndValidate(t *testing.T) {
	m := newManager(t)
	tok, err := m.Generate(models.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	claims, err := m.Validate(tok)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("subject: got %q", claims.Subject)
	}
}

func TestValidateRejects(t *testing.T) {
	m := newManager(t)

	expired := newManager(t)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredTok, _ := expired.Generate(models.User{ID: "user-1"})

	other, _ := NewTokenManager("other-secret", "HS256", time.Hour)
	foreignTok, _ := other.Generate(models.User{ID: "user-1"})

	hs512, _ := NewTokenManager("test-secret", "HS512", time.Hour)
	wrongAlgTok, _ := hs512.Generate(models.User{ID: "user-1"})

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noSubTok, _ := noSub.SignedString([]byte("test-secret"))

	cases := map[string]string{
		"expired":      expiredTok,
		"wrong secret": foreignTok,
		"wrong alg":    wrongAlgTok,
		"no subject":   noSubTok,
		"garbage":      "not-a-token",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := m.Validate(tok); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestNewTokenManagerRejectsNonHMAC(t *testing.T) {
	if _, err := NewTokenManager("s", "RS256", time.Hour); err == nil {
		t.Fatal("expected error for RS256")
	}
}

func TestMiddleware(t *testing.T) {
	m := newManager(t)
	users := fakeUsers{"user-1": {ID: "user-1", Name: "Asha"}}
	okTok, _ := m.Generate(models.User{ID: "user-1"})
	ghostTok, _ := m.Generate(models.User{ID: "ghost"})
	downTok, _ := m.Generate(models.User{ID: "store-down"})

	var seen models.User
	h := m.Middleware(users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"valid bearer", "Bearer " + okTok, "", http.StatusNoContent},
		{"valid cookie", "", okTok, http.StatusNoContent},
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + okTok, "", http.StatusUnauthorized},
		{"unknown user", "Bearer " + ghostTok, "", http.StatusUnauthorized},
		{"bad token", "Bearer nope", "", http.StatusUnauthorized},
		{"user lookup failure", "Bearer " + downTok, "", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = models.User{}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tc.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status: got %d want %d", rec.Code, tc.want)
			}
			if tc.want == http.StatusNoContent && seen.ID != "user-1" {
				t.Fatalf("user not propagated: %+v", seen)
			}
		})
	}
}
