package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/crownhub/crowns-be/internal/auth"
	"github.com/crownhub/crowns-be/internal/metrics"
	"github.com/crownhub/crowns-be/internal/models"
	"github.com/crownhub/crowns-be/internal/policy"
	"github.com/crownhub/crowns-be/internal/storage"
)

const (
	minCreatorAge = 18
	bankMaskLen   = 4
)

// AdmissionController decides whether a new creator is queued for review or waitlisted.
type AdmissionController struct {
	store  storage.AccountStore
	policy policy.Policy
	strict bool
	log    logrus.FieldLogger
}

// NewAdmissionController constructs the controller. With strict set, the active-creator
// count and the insert run under one store lock; otherwise two registrations racing at
// the boundary may both read the same count.
func NewAdmissionController(store storage.AccountStore, p policy.Policy, strict bool, log logrus.FieldLogger) *AdmissionController {
	return &AdmissionController{store: store, policy: p, strict: strict, log: log}
}

// RegisterCreatorInput is what a creator supplies at sign-up.
type RegisterCreatorInput struct {
	DisplayName string
	Email       string
	Password    string
	Age         int
	Bank        string
}

// RegisterCreator validates the profile and writes the account plus its review mirror.
func (a *AdmissionController) RegisterCreator(ctx context.Context, in RegisterCreatorInput) (models.Account, error) {
	name, email, bank := strings.TrimSpace(in.DisplayName), strings.TrimSpace(in.Email), strings.TrimSpace(in.Bank)
	if err := validateIdentity(name, email, in.Password); err != nil {
		return models.Account{}, err
	}
	if in.Age == 0 || bank == "" {
		return models.Account{}, invalid("age and bank reference are required")
	}
	if in.Age < minCreatorAge {
		return models.Account{}, invalid("creators must be at least %d years old", minCreatorAge)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.Account{}, err
	}

	acct := models.Account{
		DisplayName:  name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleCreator,
		Age:          in.Age,
		BankMask:     maskBank(bank),
	}

	var created models.Account
	if a.strict {
		created, err = a.store.AdmitCreator(ctx, acct, a.policy.AdmissionStatus)
	} else {
		var active int
		active, err = a.store.CountActiveCreators(ctx)
		if err != nil {
			return models.Account{}, err
		}
		acct.Status = a.policy.AdmissionStatus(active)
		created, err = a.store.CreateCreator(ctx, acct)
	}
	if err != nil {
		return models.Account{}, fromStorage(err, "account with this email")
	}

	metrics.RecordRegistration(created.Role, created.Status)
	a.log.WithFields(logrus.Fields{
		"account_id": created.ID,
		"status":     created.Status,
	}).Info("creator registered")
	return created, nil
}

// PendingReviews lists creators awaiting approval.
func (a *AdmissionController) PendingReviews(ctx context.Context) ([]models.PendingReview, error) {
	return a.store.ListPendingReviews(ctx)
}

// Approve activates a pending or waitlisted creator.
func (a *AdmissionController) Approve(ctx context.Context, id string) (models.Account, error) {
	acct, err := a.store.FindAccount(ctx, id)
	if err != nil {
		return models.Account{}, fromStorage(err, "creator")
	}
	if acct.Role != models.RoleCreator {
		return models.Account{}, ErrNotCreator
	}
	if acct.Status != models.StatusPending && acct.Status != models.StatusWaitingList {
		return models.Account{}, invalid("creator is %s, not awaiting approval", acct.Status)
	}
	activated, err := a.store.ActivateCreator(ctx, id)
	if err != nil {
		return models.Account{}, fromStorage(err, "creator")
	}
	a.log.WithField("account_id", id).Info("creator approved")
	return activated, nil
}

// maskBank keeps only the trailing digits of a bank reference.
func maskBank(bank string) string {
	runes := []rune(bank)
	if len(runes) <= bankMaskLen {
		return string(runes)
	}
	return string(runes[len(runes)-bankMaskLen:])
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
