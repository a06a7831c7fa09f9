package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/userhub/services/internal/store"
	"github.com/userhub/services/internal/token"
	"github.com/userhub/services/types"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxLoginLength    = 64
	maxPasswordLength = 128
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (types.Account, error)
	GetByLogin(ctx context.Context, login string) (types.Account, error)
	Create(ctx context.Context, account types.Account) (types.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AccountService encapsulates registration, authentication and account
// lookup for the auth service.
type AccountService struct {
	repo   AccountRepository
	issuer *token.Issuer
	audit  *AuditPublisher
	logger *slog.Logger
}

func NewAccountService(repo AccountRepository, issuer *token.Issuer, audit *AuditPublisher, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		repo:   repo,
		issuer: issuer,
		audit:  audit,
		logger: logger,
	}
}

// Register creates an account with a hashed password. Login uniqueness
// is enforced by the store's constraint; a duplicate maps to
// ErrAlreadyExists regardless of which of two racing registrations won.
func (s *AccountService) Register(ctx context.Context, login, password string) (types.Account, error) {
	login = strings.TrimSpace(login)
	if err := validateCredentials(login, password); err != nil {
		return types.Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.Account{}, err
	}

	account, err := s.repo.Create(ctx, types.Account{
		Login:        login,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return types.Account{}, ErrAlreadyExists
		}
		return types.Account{}, err
	}

	s.audit.Publish(ctx, AuditAccountRegistered, login)
	return account, nil
}

// Authenticate verifies a login/password pair and mints a token. An
// unknown login and a wrong password both return ErrInvalidCredentials
// so responses cannot be used to enumerate logins.
func (s *AccountService) Authenticate(ctx context.Context, login, password string) (string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return "", ErrInvalidInput
	}

	account, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.audit.Publish(ctx, AuditLoginFailed, login)
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.audit.Publish(ctx, AuditLoginFailed, login)
		return "", ErrInvalidCredentials
	}

	tokenStr, err := s.issuer.Issue(account.Login, account.ID)
	if err != nil {
		return "", err
	}

	s.audit.Publish(ctx, AuditLoginSucceeded, login)
	return tokenStr, nil
}

func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (types.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Account{}, ErrAccountNotFound
		}
		return types.Account{}, err
	}
	return account, nil
}

func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	s.audit.Publish(ctx, AuditAccountDeleted, account.Login)
	return nil
}

// EnsureAdmin creates the bootstrap admin account if it does not exist.
// Idempotent across restarts and across concurrently starting replicas.
func (s *AccountService) EnsureAdmin(ctx context.Context, login, password string) error {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return ErrInvalidInput
	}

	if _, err := s.repo.GetByLogin(ctx, login); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.repo.Create(ctx, types.Account{
		Login:        login,
		PasswordHash: string(hash),
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil
	}
	if err != nil {
		return err
	}
	s.logger.Info("admin account created", "login", login)
	return nil
}

func validateCredentials(login, password string) error {
	if login == "" || len(login) > maxLoginLength {
		return ErrInvalidInput
	}
	if password == "" || len(password) > maxPasswordLength {
		return ErrInvalidInput
	}
	return nil
}
