package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/warp/wage-engine/auth"
	"github.com/warp/wage-engine/store/memory"
)

func newAuthenticator() *auth.PasswordAuthenticator {
	return auth.NewPasswordAuthenticator(memory.New())
}

// =============================================================================
// REGISTRATION TESTS
// =============================================================================

func TestRegister_HashesAndNormalizes(t *testing.T) {
	a := newAuthenticator()
	ctx := context.Background()

	user, err := a.Register(ctx, "  Chair@Example.COM ", "Pat", "orchestra-pit")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.Email != "chair@example.com" {
		t.Errorf("email should be normalized, got %q", user.Email)
	}
	if user.PasswordHash == "orchestra-pit" {
		t.Error("password must not be stored in plaintext")
	}
	if user.ID == "" {
		t.Error("expected a generated user ID")
	}
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	a := newAuthenticator()

	_, err := a.Register(context.Background(), "x@example.com", "", "short")
	if !errors.Is(err, auth.ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
}

func TestRegister_RejectsBadEmail(t *testing.T) {
	a := newAuthenticator()

	for _, email := range []string{"", "   ", "not-an-address"} {
		_, err := a.Register(context.Background(), email, "", "long-enough-pass")
		if !errors.Is(err, auth.ErrInvalidEmail) {
			t.Errorf("email %q: expected ErrInvalidEmail, got %v", email, err)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	// Registering the same address twice fails, regardless of case.
	a := newAuthenticator()
	ctx := context.Background()

	if _, err := a.Register(ctx, "dup@example.com", "", "long-enough-pass"); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := a.Register(ctx, "DUP@example.com", "", "long-enough-pass")
	if !errors.Is(err, auth.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

// =============================================================================
// AUTHENTICATION TESTS
// =============================================================================

func TestAuthenticate_ValidCredentials(t *testing.T) {
	a := newAuthenticator()
	ctx := context.Background()

	registered, err := a.Register(ctx, "login@example.com", "Lee", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, err := a.Authenticate(ctx, "Login@Example.com", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("expected user %s, got %s", registered.ID, user.ID)
	}
}

func TestAuthenticate_UniformFailure(t *testing.T) {
	// GIVEN: One registered user
	// WHEN: Logging in with an unknown email, and with a wrong password
	// THEN: Both fail with the same error, leaking nothing about which
	//        emails exist
	a := newAuthenticator()
	ctx := context.Background()

	if _, err := a.Register(ctx, "real@example.com", "", "correct-horse-battery"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, unknownErr := a.Authenticate(ctx, "ghost@example.com", "whatever-password")
	_, wrongErr := a.Authenticate(ctx, "real@example.com", "wrong-password")

	if !errors.Is(unknownErr, auth.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, auth.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Error("failure messages must be indistinguishable")
	}
}

// =============================================================================
// TOKEN TESTS
// =============================================================================

func TestJWT_RoundTrip(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	user := &auth.User{ID: "user-1", Email: "token@example.com"}

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("expected user-1, got %s", claims.UserID)
	}
	if claims.Email != "token@example.com" {
		t.Errorf("expected token@example.com, got %s", claims.Email)
	}
}

func TestJWT_RejectsExpired(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", -time.Minute)

	token, err := manager.Generate(&auth.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := manager.Validate(token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestJWT_RejectsTamperedAndForeign(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	other := auth.NewJWTManager("other-secret", time.Hour)

	token, err := other.Generate(&auth.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := manager.Validate(token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for foreign signature, got %v", err)
	}

	own, _ := manager.Generate(&auth.User{ID: "user-1"})
	if _, err := manager.Validate(own + "x"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestJWT_RejectsUnsignedAlgorithm(t *testing.T) {
	// A token claiming alg=none must fail before its claims are trusted.
	manager := auth.NewJWTManager("test-secret", time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{UserID: "user-1"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing with none: %v", err)
	}

	if _, err := manager.Validate(token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}
