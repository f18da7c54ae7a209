package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/hashing"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/repositories/users"
	"github.com/google/uuid"
)

// Authenticator checks a username/password pair against the store.
type Authenticator struct {
	repo   users.Repository
	hasher hashing.Hasher
	logger logging.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthenticator(repo users.Repository, hasher hashing.Hasher, logger logging.Logger) *Authenticator {
	return &Authenticator{repo: repo, hasher: hasher, logger: logger}
}

// Verify reports whether password matches the stored hash for username.
//
// UserNotFound and WrongPassword are returned with a nil error. A non-nil
// error is always a *common.StoreError, including the case of a stored hash
// that no known scheme can read.
func (a *Authenticator) Verify(ctx context.Context, username string, password []byte) (VerificationResult, error) {
	log := a.logger.With("op_id", uuid.NewString(), "username", username)

	hash, err := a.repo.Lookup(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep the not-found path about as slow as a real comparison
			a.compareDummy(password)
			log.Warn(ctx, logging.EventLoginFailure, "reason", logging.ReasonUserNotFound)
			return UserNotFound, nil
		}
		log.Error(ctx, logging.EventStoreError, "op", "lookup", "error", err)
		return 0, err
	}

	ok, err := a.hasher.Compare(hash, password)
	if err != nil {
		serr := common.NewStoreError("verify", fmt.Errorf("unusable stored hash: %w", err))
		log.Error(ctx, logging.EventStoreError, "op", "verify", "error", serr)
		return 0, serr
	}
	if !ok {
		log.Warn(ctx, logging.EventLoginFailure, "reason", logging.ReasonWrongPassword)
		return WrongPassword, nil
	}

	log.Info(ctx, logging.EventLoginSuccess)
	return Success, nil
}

// Login is Verify for callers that must not learn whether the username
// exists: both failures become common.ErrInvalidCredentials.
func (a *Authenticator) Login(ctx context.Context, username string, password []byte) error {
	res, err := a.Verify(ctx, username, password)
	if err != nil {
		return err
	}
	if res != Success {
		return common.ErrInvalidCredentials
	}
	return nil
}

func (a *Authenticator) compareDummy(password []byte) {
	a.dummyOnce.Do(func() {
		h, err := a.hasher.Hash([]byte("credkeeper-timing-placeholder"))
		if err == nil {
			a.dummyHash = h
		}
	})
	if a.dummyHash != nil {
		_, _ = a.hasher.Compare(a.dummyHash, password)
	}
}
