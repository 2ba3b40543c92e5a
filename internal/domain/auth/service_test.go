package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/greenledger/greenledger-api/internal/domain/user"
	"github.com/greenledger/greenledger-api/internal/pkg/jwt"
)

type fakeUserRepo struct {
	byUsername map[string]*user.User
	byID       map[uuid.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byUsername: map[string]*user.User{},
		byID:       map[uuid.UUID]*user.User{},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	f.byUsername[u.Username] = u
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return f.byUsername[username], nil
}

func newTestService(repo user.Repository) *Service {
	jwtService := jwt.NewService("test-secret", 15*time.Minute)
	return NewService(repo, jwtService, 1000, 5000)
}

func TestRegister(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "alice",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.User.Username != "alice" {
		t.Errorf("expected username alice, got %s", resp.User.Username)
	}
	if resp.User.Credits != 1000 {
		t.Errorf("expected starting credits 1000, got %v", resp.User.Credits)
	}
	if resp.User.WalletBalance != 5000 {
		t.Errorf("expected starting wallet 5000, got %v", resp.User.WalletBalance)
	}
	if resp.Token.AccessToken == "" {
		t.Error("expected access token to be issued")
	}
	if resp.Token.TokenType != "Bearer" {
		t.Errorf("expected token type Bearer, got %s", resp.Token.TokenType)
	}

	stored := repo.byUsername["alice"]
	if stored == nil {
		t.Fatal("expected user persisted")
	}
	if stored.Role != user.RoleUser {
		t.Errorf("expected role user, got %s", stored.Role)
	}
	if stored.PasswordHash == "supersecret" {
		t.Error("password must not be stored in plain text")
	}
}

func TestRegisterNormalizesUsername(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "  Alice ",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.User.Username != "alice" {
		t.Errorf("expected normalized username alice, got %s", resp.User.Username)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), &RegisterRequest{Username: "alice", Password: "supersecret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Register(context.Background(), &RegisterRequest{Username: "ALICE", Password: "othersecret"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), &RegisterRequest{Username: "alice", Password: "supersecret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := svc.Login(context.Background(), &LoginRequest{Username: "Alice", Password: "supersecret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token.AccessToken == "" {
		t.Error("expected access token to be issued")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), &RegisterRequest{Username: "alice", Password: "supersecret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Login(context.Background(), &LoginRequest{Username: "alice", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), &LoginRequest{Username: "nobody", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestMe(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	reg, err := svc.Register(context.Background(), &RegisterRequest{Username: "alice", Password: "supersecret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	me, err := svc.Me(context.Background(), reg.User.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if me.Username != "alice" {
		t.Errorf("expected username alice, got %s", me.Username)
	}

	_, err = svc.Me(context.Background(), uuid.New())
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
