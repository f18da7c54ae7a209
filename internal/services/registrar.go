// Package services holds the credential store's business logic: Registrar
// creates accounts and Authenticator checks passwords against them.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/credkeeper/internal/approval"
	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/config"
	"github.com/dmitrijs2005/credkeeper/internal/hashing"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/repositories/users"
	"github.com/google/uuid"
)

// Registrar creates new accounts. It is safe for concurrent use; uniqueness
// is enforced by the repository, not by Registrar.
type Registrar struct {
	repo              users.Repository
	hasher            hashing.Hasher
	approver          approval.Approver
	approvalRequired  bool
	minPasswordLength int
	logger            logging.Logger
}

// NewRegistrar wires a Registrar. Approval and password policy come from cfg.
func NewRegistrar(repo users.Repository, hasher hashing.Hasher, approver approval.Approver, cfg *config.Config, logger logging.Logger) *Registrar {
	return &Registrar{
		repo:              repo,
		hasher:            hasher,
		approver:          approver,
		approvalRequired:  cfg.ApprovalRequired,
		minPasswordLength: max(cfg.MinPasswordLength, 1),
		logger:            logger,
	}
}

// AddUser registers username with password.
//
// A non-nil error is a validation error (common.ErrInvalidUsername,
// common.ErrInvalidPassword), a hashing failure or a *common.StoreError, and
// nothing was written. Otherwise the result tells what happened.
func (r *Registrar) AddUser(ctx context.Context, username string, password []byte) (RegistrationResult, error) {
	log := r.logger.With("op_id", uuid.NewString(), "username", username)

	if err := r.validate(username, password); err != nil {
		log.Debug(ctx, "registration rejected", "error", err)
		return 0, err
	}

	if r.approvalRequired && !r.approver.Approve(ctx, username) {
		log.Info(ctx, logging.EventApprovalDenied)
		return ApprovalDenied, nil
	}

	exists, err := r.repo.Exists(ctx, username)
	if err != nil {
		log.Error(ctx, logging.EventStoreError, "op", "exists", "error", err)
		return 0, err
	}
	if exists {
		log.Info(ctx, logging.EventDuplicateUsername)
		return UsernameTaken, nil
	}

	hash, err := r.hasher.Hash(password)
	if err != nil {
		log.Error(ctx, "password hashing failed", "error", err)
		return 0, err
	}

	if err := r.repo.Insert(ctx, username, hash); err != nil {
		if errors.Is(err, common.ErrDuplicateUser) {
			// lost the race to a concurrent registration
			log.Info(ctx, logging.EventDuplicateUsername, "race", true)
			return UsernameTaken, nil
		}
		log.Error(ctx, logging.EventStoreError, "op", "insert", "error", err)
		return 0, err
	}

	log.Info(ctx, logging.EventUserRegistered)
	return Registered, nil
}

func (r *Registrar) validate(username string, password []byte) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: must not be empty", common.ErrInvalidUsername)
	}
	if !utf8.ValidString(username) {
		return fmt.Errorf("%w: must be valid UTF-8", common.ErrInvalidUsername)
	}
	if n := utf8.RuneCount(password); n < r.minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", common.ErrInvalidPassword, r.minPasswordLength)
	}
	if limit := r.hasher.MaxPasswordLength(); limit > 0 && len(password) > limit {
		return fmt.Errorf("%w: must be at most %d bytes", common.ErrInvalidPassword, limit)
	}
	return nil
}
