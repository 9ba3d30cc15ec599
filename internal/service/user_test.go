package service

import (
	"errors"
	"testing"

	"go-arsip/internal/repository"
)

func newUserService(t *testing.T) UserService {
	t.Helper()
	return NewUserService(repository.NewUserRepository(newTestDB(t)))
}

func TestRegisterAndAuthenticate(t *testing.T) {
	users := newUserService(t)

	user, err := users.Register("Alice@Example.com", "Alice Smith", "s3cret")
	if err != nil {
		t.Fatal(err)
	}

	// Email нормализуется к нижнему регистру
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want lowercase", user.Email)
	}
	if user.PasswordHash == "s3cret" {
		t.Error("password should be stored hashed")
	}

	authed, err := users.Authenticate("alice@example.com", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if authed.LastLoginAt == nil {
		t.Error("LastLoginAt should be stamped on login")
	}

	if _, err := users.Authenticate("alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := users.Authenticate("nobody@example.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newUserService(t)

	if _, err := users.Register("bob@example.com", "Bob", "pass1"); err != nil {
		t.Fatal(err)
	}

	if _, err := users.Register("bob@example.com", "Bobby", "pass2"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email error = %v, want ErrEmailTaken", err)
	}
}
