package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/simp-lee/shopgraph/internal/domain"
)

type mockAuthService struct {
	result *domain.AuthResult
	user   *domain.User
	err    error

	gotEmail, gotPassword, gotToken string
	logouts                         int
}

func (m *mockAuthService) Login(_ context.Context, email, password string) (*domain.AuthResult, error) {
	m.gotEmail, m.gotPassword = email, password
	return m.result, m.err
}

func (m *mockAuthService) Verify(_ context.Context, raw string) (*domain.User, error) {
	m.gotToken = raw
	return m.user, m.err
}

func (m *mockAuthService) Authenticate(context.Context, string) (domain.Identity, error) {
	return domain.Identity{}, m.err
}

func (m *mockAuthService) Logout(context.Context) error {
	m.logouts++
	return m.err
}

func (m *mockAuthService) Me(context.Context) (*domain.User, error) { return m.user, m.err }

func TestAuthHandler_Login(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	u := &domain.User{BaseModel: domain.BaseModel{ID: 3}, Email: "a@x.com", Verified: true}
	svc := &mockAuthService{result: &domain.AuthResult{Token: "tok", ExpiresAt: exp, User: u}}
	h := NewHandler(svc)

	got, err := h.Login(context.Background(), LoginArgs{Email: "a@x.com", Password: "secret"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if svc.gotEmail != "a@x.com" || svc.gotPassword != "secret" {
		t.Errorf("service got %q/%q", svc.gotEmail, svc.gotPassword)
	}
	if got.Token() != "tok" || !got.ExpiresAt().Time.Equal(exp) {
		t.Errorf("payload = %q, %v", got.Token(), got.ExpiresAt().Time)
	}
	if got.User().ID() != "3" || !got.User().Verify() {
		t.Errorf("payload user = %v", got.User())
	}
}

func TestAuthHandler_Verify(t *testing.T) {
	svc := &mockAuthService{user: &domain.User{BaseModel: domain.BaseModel{ID: 5}, Verified: true}}
	h := NewHandler(svc)

	got, err := h.Verify(context.Background(), VerifyArgs{Token: "abc"})
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if svc.gotToken != "abc" || !got.Verify() {
		t.Errorf("token = %q, verify = %v", svc.gotToken, got.Verify())
	}
}

func TestAuthHandler_LogoutAndMe(t *testing.T) {
	svc := &mockAuthService{user: &domain.User{UserName: "me"}}
	h := NewHandler(svc)

	ok, err := h.Logout(context.Background())
	if err != nil || !ok {
		t.Errorf("Logout() = %v, %v", ok, err)
	}
	me, err := h.Me(context.Background())
	if err != nil || me.UserName() != "me" {
		t.Errorf("Me() = %v, %v", me, err)
	}
}

func TestAuthHandler_Errors(t *testing.T) {
	h := NewHandler(&mockAuthService{err: domain.ErrUnauthorized})
	ctx := context.Background()

	if _, err := h.Login(ctx, LoginArgs{}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Login() error = %v", err)
	}
	if ok, err := h.Logout(ctx); ok || !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Logout() = %v, %v", ok, err)
	}
	if _, err := h.Verify(ctx, VerifyArgs{}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Verify() error = %v", err)
	}
	if _, err := h.Me(ctx); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Me() error = %v", err)
	}
}
