package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rajat93105-cell/pbl-project/internal/database"
	"github.com/rajat93105-cell/pbl-project/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
	CreateUser(ctx context.Context, email, name, password string) (models.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (models.User, error)
	UpdateName(ctx context.Context, id, name string) (models.User, error)
}

// UserService provides business logic for accounts and profiles.
type UserService struct {
	db     *database.DB
	domain string
	now    func() time.Time
}

// NewUserService creates a new UserService. Registration only accepts
// emails ending with domain.
func NewUserService(db *database.DB, domain string) *UserService {
	return &UserService{db: db, domain: domain, now: time.Now}
}

func scanUser(scanner interface{ Scan(...interface{}) error }, withHash bool) (models.User, error) {
	var user models.User
	var createdAt string
	var err error
	if withHash {
		err = scanner.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &createdAt)
	} else {
		err = scanner.Scan(&user.ID, &user.Email, &user.Name, &createdAt)
	}
	if err != nil {
		return user, err
	}
	user.CreatedAt, err = database.ParseTime(createdAt)
	return user, err
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, email, name, created_at FROM users WHERE id = ?", id)
	user, err := scanUser(row, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, notFound("User not found")
		}
		return models.User{}, err
	}
	return user, nil
}

// getUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) getUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, email, name, password_hash, created_at FROM users WHERE email = ?", email)
	user, err := scanUser(row, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, notFound(fmt.Sprintf("user with email %s not found", email))
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateUser validates and registers a new account, hashing the password.
func (s *UserService) CreateUser(ctx context.Context, email, name, password string) (models.User, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email, s.domain); err != nil {
		return models.User{}, err
	}
	if err := validateName(name); err != nil {
		return models.User{}, err
	}
	if err := validatePassword(password); err != nil {
		return models.User{}, err
	}

	if _, err := s.getUserByEmail(ctx, email); err == nil {
		return models.User{}, duplicate("Email already registered")
	} else if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	user := models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?) ON CONFLICT (email) DO NOTHING",
		user.ID, user.Email, user.Name, string(hashedPassword), database.FormatTime(now),
	)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	// A concurrent registration may have won the race since the check above.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.User{}, duplicate("Email already registered")
	}

	return user, nil
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.getUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.User{}, unauthorized("Invalid email or password")
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, unauthorized("Invalid email or password")
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// UpdateName changes the display name and fans it out to the seller name
// denormalised on the user's products.
func (s *UserService) UpdateName(ctx context.Context, id, name string) (models.User, error) {
	if err := validateName(name); err != nil {
		return models.User{}, err
	}

	res, err := s.db.ExecContext(ctx, "UPDATE users SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return models.User{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.User{}, notFound("User not found")
	}

	if _, err := s.db.ExecContext(ctx, "UPDATE products SET seller_name = ? WHERE seller_id = ?", name, id); err != nil {
		return models.User{}, fmt.Errorf("failed to sync seller name: %w", err)
	}
	return s.GetUserByID(ctx, id)
}
