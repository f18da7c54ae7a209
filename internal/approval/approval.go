// Package approval decides whether a new account may be registered.
package approval

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credkeeper/internal/config"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
)

// Approver is consulted once per registration attempt.
type Approver interface {
	Approve(ctx context.Context, username string) bool
}

// AlwaysApprove grants every registration.
type AlwaysApprove struct{}

func (AlwaysApprove) Approve(context.Context, string) bool { return true }

// AlwaysDeny refuses every registration.
type AlwaysDeny struct{}

func (AlwaysDeny) Approve(context.Context, string) bool { return false }

// Func adapts an external decision callback, for example a supervisor prompt.
type Func func(ctx context.Context, username string) bool

func (f Func) Approve(ctx context.Context, username string) bool {
	return f(ctx, username)
}

// New returns the Approver selected by cfg.ApprovalMode. supervisor backs
// the prompt mode and may be nil otherwise.
func New(cfg *config.Config, supervisor Func, logger logging.Logger) (Approver, error) {
	switch cfg.ApprovalMode {
	case config.ApprovalAlways:
		return AlwaysApprove{}, nil
	case config.ApprovalDeny:
		return AlwaysDeny{}, nil
	case config.ApprovalCedar:
		return NewCedarFromFile(cfg.ApprovalPolicyFile, logger)
	case config.ApprovalPrompt:
		if supervisor == nil {
			return nil, errors.New("prompt approval mode needs an interactive supervisor")
		}
		return supervisor, nil
	default:
		return nil, fmt.Errorf("unknown approval mode %q", cfg.ApprovalMode)
	}
}
