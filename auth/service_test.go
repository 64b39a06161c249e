package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users     map[string]User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]User)}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	if f.createErr != nil {
		return User{}, f.createErr
	}
	if _, exists := f.users[params.Email]; exists {
		return User{}, ErrDuplicateEmail
	}
	user := User{
		ID:           "user-" + params.Email,
		Email:        params.Email,
		FullName:     params.FullName,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
	}
	f.users[params.Email] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (User, error) {
	user, ok := f.users[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, userID string) (User, error) {
	for _, user := range f.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func TestRegister_WeakPassword(t *testing.T) {
	svc := NewService(newFakeUserRepo(), "secret")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "anna@example.com",
		Password: "short",
		FullName: "Anna Musiker",
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestRegister_DefaultsToMusician(t *testing.T) {
	svc := NewService(newFakeUserRepo(), "secret")

	user, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse",
		FullName: "Anna Musiker",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != RoleMusician {
		t.Errorf("expected default musician role, got %s", user.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")); err != nil {
		t.Error("stored hash does not match password")
	}
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	svc := NewService(newFakeUserRepo(), "secret")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse",
		FullName: "Anna Musiker",
		Role:     "promoter",
	})
	if err == nil {
		t.Fatal("expected invalid role error")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, "secret")

	if _, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "ola@example.com",
		Password: "correct-horse",
		FullName: "Ola Organizer",
		Role:     RoleOrganizer,
	}); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ola@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmailMapsToInvalidCredentials(t *testing.T) {
	svc := NewService(newFakeUserRepo(), "secret")

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginAndVerifyToken_Roundtrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, "secret")

	registered, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "ola@example.com",
		Password: "correct-horse",
		FullName: "Ola Organizer",
		Role:     RoleOrganizer,
	})
	if err != nil {
		t.Fatal(err)
	}

	result, err := svc.Login(context.Background(), LoginRequest{Email: "ola@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token")
	}

	userID, role, err := svc.VerifyToken(result.Token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if userID != registered.ID {
		t.Errorf("expected user id %s, got %s", registered.ID, userID)
	}
	if role != RoleOrganizer {
		t.Errorf("expected organizer role, got %s", role)
	}
}

func TestVerifyToken_RejectsForeignSecret(t *testing.T) {
	repo := newFakeUserRepo()
	issuer := NewService(repo, "secret-a")
	verifier := NewService(repo, "secret-b")

	if _, err := issuer.Register(context.Background(), RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse",
		FullName: "Anna Musiker",
	}); err != nil {
		t.Fatal(err)
	}
	result, err := issuer.Login(context.Background(), LoginRequest{Email: "anna@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := verifier.VerifyToken(result.Token); err == nil {
		t.Fatal("expected verification failure with a different secret")
	}
}
