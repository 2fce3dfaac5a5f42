package service

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/crownhub/crowns-be/internal/auth"
	"github.com/crownhub/crowns-be/internal/metrics"
	"github.com/crownhub/crowns-be/internal/models"
	"github.com/crownhub/crowns-be/internal/storage"
)

const minPasswordLength = 8

// AccountService owns fan sign-up, sign-in and account lookups.
type AccountService struct {
	store  storage.AccountStore
	tokens *auth.TokenManager
	log    logrus.FieldLogger
}

// NewAccountService constructs the service.
func NewAccountService(store storage.AccountStore, tokens *auth.TokenManager, log logrus.FieldLogger) *AccountService {
	return &AccountService{store: store, tokens: tokens, log: log}
}

// RegisterFanInput is what a fan supplies at sign-up.
type RegisterFanInput struct {
	DisplayName string
	Email       string
	Password    string
}

// RegisterFan creates an active fan account.
func (s *AccountService) RegisterFan(ctx context.Context, in RegisterFanInput) (models.Account, error) {
	name, email := strings.TrimSpace(in.DisplayName), strings.TrimSpace(in.Email)
	if err := validateIdentity(name, email, in.Password); err != nil {
		return models.Account{}, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.Account{}, err
	}

	created, err := s.store.CreateAccount(ctx, models.Account{
		DisplayName:  name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleFan,
		Status:       models.StatusActive,
	})
	if err != nil {
		return models.Account{}, fromStorage(err, "account with this email")
	}
	metrics.RecordRegistration(created.Role, created.Status)
	s.log.WithField("account_id", created.ID).Info("fan registered")
	return created, nil
}

// Login verifies credentials and issues a token.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, models.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", models.Account{}, invalid("email and password are required")
	}
	acct, err := s.store.FindAccountByEmail(ctx, email)
	if err != nil {
		if errorsIsNotFound(err) {
			return "", models.Account{}, ErrAuth
		}
		return "", models.Account{}, err
	}
	if !auth.CheckPassword(acct.PasswordHash, password) {
		return "", models.Account{}, ErrAuth
	}
	token, err := s.tokens.Generate(acct)
	if err != nil {
		return "", models.Account{}, err
	}
	return token, acct, nil
}

// Account returns the caller's own account.
func (s *AccountService) Account(ctx context.Context, caller models.Principal) (models.Account, error) {
	if caller.Anonymous() {
		return models.Account{}, ErrAuth
	}
	acct, err := s.store.FindAccount(ctx, caller.AccountID)
	return acct, fromStorage(err, "account")
}

func validateIdentity(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return invalid("display name, email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return invalid("email address is malformed")
	}
	if utf8.RuneCountInString(password) < minPasswordLength || !utf8.ValidString(password) {
		return invalid("password must be at least %d characters", minPasswordLength)
	}
	return nil
}
