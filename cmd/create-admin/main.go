package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"estatedesk-backend/internal/database"
	"estatedesk-backend/internal/models"
	"estatedesk-backend/internal/repository"
)

// userStore is the slice of the user repository this command needs.
type userStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}

// createAdmin seeds an admin account. The password is bcrypt-hashed; an
// existing account with the same email is an error, not an update.
func createAdmin(ctx context.Context, store userStore, email, password, fullName string, role models.UserRole) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email %q", email)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	if fullName == "" {
		return nil, fmt.Errorf("full name is required")
	}
	if role != models.RoleAdmin && role != models.RoleSuperAdmin {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	existing, err := store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("user %s already exists", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: string(hash),
		FullName:       fullName,
		Role:           role,
		IsActive:       true,
	}
	if err := store.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password (min 8 characters)")
	fullName := flag.String("name", "", "admin full name")
	role := flag.String("role", string(models.RoleAdmin), "role: admin or super_admin")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	user, err := createAdmin(context.Background(),
		repository.NewUserRepository(db),
		*email, *password, *fullName, models.UserRole(*role))
	if err != nil {
		logger.Error("failed to create admin", "error", err)
		os.Exit(1)
	}

	logger.Info("admin created", "id", user.ID, "email", user.Email, "role", user.Role)
}
