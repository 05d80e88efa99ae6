package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/intersection-backend/internal/types"
)

func newAuthFixture(t *testing.T, userRepo *fakeUserRepo) AuthService {
	t.Helper()
	return NewAuthService(nil, newTestLogger(t), userRepo, "test-secret", time.Hour)
}

func TestRegisterNormalizesEmailAndHashesPassword(t *testing.T) {
	userRepo := &fakeUserRepo{byEmail: map[string]*types.User{}}
	svc := newAuthFixture(t, userRepo)

	user, err := svc.Register(context.Background(), "  Alice@Example.COM ", "hunter2secret", "alice")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email: want=%q got=%q", "alice@example.com", user.Email)
	}
	if user.Status != types.UserStatusActive {
		t.Fatalf("status: want=%q got=%q", types.UserStatusActive, user.Status)
	}
	if user.Password == "hunter2secret" {
		t.Fatalf("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter2secret")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	userRepo := &fakeUserRepo{byEmail: map[string]*types.User{
		"taken@example.com": {Email: "taken@example.com"},
	}}
	svc := newAuthFixture(t, userRepo)

	if _, err := svc.Register(context.Background(), "taken@example.com", "password123", "nick"); err == nil {
		t.Fatalf("Register: expected error for duplicate email")
	}
}

func TestLoginTokenRoundTrip(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	userID := uuid.New()
	userRepo := &fakeUserRepo{byEmail: map[string]*types.User{
		"bob@example.com": {ID: userID, Email: "bob@example.com", Password: string(hashed), Status: types.UserStatusActive},
	}}
	svc := newAuthFixture(t, userRepo)

	token, user, err := svc.Login(context.Background(), "Bob@Example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != userID {
		t.Fatalf("user id: want=%s got=%s", userID, user.ID)
	}

	parsedID, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if parsedID != userID {
		t.Fatalf("parsed subject: want=%s got=%s", userID, parsedID)
	}
}

func TestLoginRejections(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	tests := []struct {
		name     string
		user     *types.User
		password string
	}{
		{"unknown email", nil, "password123"},
		{"wrong password", &types.User{ID: uuid.New(), Password: string(hashed), Status: types.UserStatusActive}, "wrong"},
		{"deleted user", &types.User{ID: uuid.New(), Password: string(hashed), Status: types.UserStatusActive, IsDeleted: true}, "password123"},
		{"blocked user", &types.User{ID: uuid.New(), Password: string(hashed), Status: types.UserStatusBlocked}, "password123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			byEmail := map[string]*types.User{}
			if tt.user != nil {
				tt.user.Email = "u@example.com"
				byEmail["u@example.com"] = tt.user
			}
			svc := newAuthFixture(t, &fakeUserRepo{byEmail: byEmail})
			if _, _, err := svc.Login(context.Background(), "u@example.com", tt.password); err == nil {
				t.Fatalf("Login: expected error")
			}
		})
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	svc := newAuthFixture(t, &fakeUserRepo{})
	if _, err := svc.ParseToken("not-a-token"); err == nil {
		t.Fatalf("ParseToken: expected error")
	}
}
