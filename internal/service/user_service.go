package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/store"
)

// NewUserInput describes an account to provision.
type NewUserInput struct {
	Name     string `validate:"required,max=255"`
	Email    string `validate:"required,email,max=255"`
	Role     string `validate:"required,oneof=admin user"`
	Password string `validate:"required,min=8"`
}

// PasswordHasher turns a plaintext password into a storable hash.
type PasswordHasher func(password string) (string, error)

// UserService provisions accounts. The web application never creates users;
// this is used by the command line.
type UserService interface {
	// CreateUser validates input, hashes the password and stores the user.
	// Returns store.ErrEmailExists if the email is taken.
	CreateUser(ctx context.Context, input NewUserInput) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	tx        store.Transactor
	userStore store.UserStore
	hash      PasswordHasher
	validator *validator.Validate
	logger    *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	tx store.Transactor,
	userStore store.UserStore,
	hash PasswordHasher,
	logger *slog.Logger,
) (*UserServiceImpl, error) {
	if tx == nil || userStore == nil || hash == nil {
		return nil, fmt.Errorf("user service: %w", ErrNilDependency)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserServiceImpl{
		tx:        tx,
		userStore: userStore,
		hash:      hash,
		validator: validator.New(),
		logger:    logger.With(slog.String("component", "user_service")),
	}, nil
}

// CreateUser creates a new user inside a transaction.
func (s *UserServiceImpl) CreateUser(ctx context.Context, input NewUserInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Role = strings.TrimSpace(input.Role)

	if err := s.validator.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, domain.NewValidationError(strings.ToLower(fe.Field()), "failed "+fe.Tag()+" check", domain.ErrValidation)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hashed, err := s.hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:             uuid.New(),
		Name:           input.Name,
		Email:          input.Email,
		Role:           domain.Role(input.Role),
		HashedPassword: hashed,
		CreatedAt:      time.Now().UTC(),
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to create user with existing email")
		} else {
			log.Error("failed to save user", slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	return user, nil
}
