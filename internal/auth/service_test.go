package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MrJusticeShai/odd-handyman-api/internal/apperr"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewUserService(NewRepository(db), []byte("secret"), 3600)

	user := User{
		ID:           uuid.New(),
		Name:         "Anna",
		Email:        "anna@example.com",
		PasswordHash: "sturdy-pass1",
		Role:         RoleCustomer,
		CreatedAt:    time.Now(),
	}
	if err := svc.Register(ctx, user); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	var stored User
	if err := db.First(&stored, "email = ?", "anna@example.com").Error; err != nil {
		t.Fatalf("failed to load registered user: %v", err)
	}
	if stored.PasswordHash == "sturdy-pass1" {
		t.Error("password must be stored hashed")
	}

	t.Run("duplicate email", func(t *testing.T) {
		dup := user
		dup.ID = uuid.New()
		err := svc.Register(ctx, dup)
		if !apperr.IsKind(err, apperr.KindConflict) {
			t.Errorf("expected Conflict, got %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewUserService(NewRepository(db), []byte("secret"), 3600)

	user := User{
		ID:           uuid.New(),
		Name:         "Boris",
		Email:        "boris@example.com",
		PasswordHash: "sturdy-pass1",
		Role:         RoleHandyman,
		CreatedAt:    time.Now(),
	}
	if err := svc.Register(ctx, user); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		got, claims, err := svc.Login(ctx, "boris@example.com", "sturdy-pass1")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("user id = %s, want %s", got.ID, user.ID)
		}
		if claims.UserID != user.ID || claims.Role != RoleHandyman {
			t.Errorf("claims = %+v", claims)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "boris@example.com", "wrong-pass1")
		if !apperr.IsKind(err, apperr.KindUnauthorized) {
			t.Errorf("expected Unauthorized, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "sturdy-pass1")
		if !apperr.IsKind(err, apperr.KindUnauthorized) {
			t.Errorf("expected Unauthorized, got %v", err)
		}
	})
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewUserService(NewRepository(db), []byte("secret"), 3600)

	user := User{
		ID:           uuid.New(),
		Name:         "Clara",
		Email:        "clara@example.com",
		PasswordHash: "sturdy-pass1",
		Role:         RoleCustomer,
		CreatedAt:    time.Now(),
	}
	if err := svc.Register(ctx, user); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, err := svc.Profile(ctx, user.ID)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if got.PasswordHash != "" {
		t.Error("profile must not expose the password hash")
	}
	if got.Email != "clara@example.com" {
		t.Errorf("email = %s", got.Email)
	}

	if _, err := svc.Profile(ctx, uuid.New()); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}
