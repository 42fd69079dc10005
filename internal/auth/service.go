package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mohamedhussein2626/backend-part/internal/apperror"
	"github.com/mohamedhussein2626/backend-part/internal/logging"
	"github.com/mohamedhussein2626/backend-part/internal/models"
	"github.com/mohamedhussein2626/backend-part/internal/store"
)

// AccountRepository persists one kind of account.
type AccountRepository interface {
	Create(ctx context.Context, acc *models.Account) error
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}

// RegisterRequest is the body of a register call.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of a login call.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the outcome of a successful register or login.
type Session struct {
	Account *models.Account
	Token   string
}

// Service registers and authenticates accounts of a single role.
type Service struct {
	role     models.Role
	accounts AccountRepository
	tokens   *TokenManager
	log      logging.Logger
}

func NewService(role models.Role, accounts AccountRepository, tokens *TokenManager, log logging.Logger) *Service {
	return &Service{
		role:     role,
		accounts: accounts,
		tokens:   tokens,
		log:      log.With("role", string(role)),
	}
}

// Role is the kind of account this service manages.
func (s *Service) Role() models.Role {
	return s.role
}

// Register creates an account and signs a token for it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, apperror.InvalidParameters("Name, email, and password are required")
	}

	acc, err := models.NewAccount(req.Name, req.Email, req.Password, s.role)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperror.InvalidParameters("Password must be at most 72 bytes")
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.accounts.Create(ctx, acc); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperror.Conflict(s.existsMessage())
		}
		s.log.Error(ctx, "registration failed", "error", err)
		return nil, fmt.Errorf("create account: %w", err)
	}

	return s.issue(acc)
}

// Login checks the credentials and signs a fresh token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperror.InvalidParameters("Email and password are required")
	}

	acc, err := s.accounts.GetByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.Unauthorized("Invalid email or password")
	}
	if err != nil {
		s.log.Error(ctx, "login lookup failed", "error", err)
		return nil, fmt.Errorf("find account: %w", err)
	}

	if !acc.ValidatePassword(req.Password) {
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	return s.issue(acc)
}

func (s *Service) issue(acc *models.Account) (*Session, error) {
	token, err := s.tokens.GenerateToken(acc)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Account: acc, Token: token}, nil
}

func (s *Service) existsMessage() string {
	if s.role == models.RoleAdmin {
		return "Admin with this email already exists"
	}
	return "User with this email already exists"
}
