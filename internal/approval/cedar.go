package approval

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/cedar-policy/cedar-go"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
)

var (
	registerAction = cedar.NewEntityUID("Action", cedar.String("register"))
	usersStore     = cedar.NewEntityUID("Store", cedar.String("users"))
)

// Cedar approves registrations by evaluating a Cedar policy set.
//
// Each attempt is the request
//
//	principal: User::"<username>"  (attributes: username String, length Long)
//	action:    Action::"register"
//	resource:  Store::"users"
//
// Anything other than an explicit permit is a denial.
type Cedar struct {
	policies *cedar.PolicySet
	logger   logging.Logger
}

// NewCedar parses policy as Cedar source. name is used in parse errors.
func NewCedar(name string, policy []byte, logger logging.Logger) (*Cedar, error) {
	ps, err := cedar.NewPolicySetFromBytes(name, policy)
	if err != nil {
		return nil, fmt.Errorf("failed to parse policies: %w", err)
	}
	return &Cedar{policies: ps, logger: logger}, nil
}

// NewCedarFromFile loads the policy set from path.
func NewCedarFromFile(path string, logger logging.Logger) (*Cedar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	return NewCedar(filepath.Base(path), data, logger)
}

func (c *Cedar) Approve(ctx context.Context, username string) bool {
	principal := cedar.NewEntityUID("User", cedar.String(username))

	entities := cedar.EntityMap{
		principal: cedar.Entity{
			UID:     principal,
			Parents: cedar.NewEntityUIDSet(),
			Attributes: cedar.NewRecord(cedar.RecordMap{
				"username": cedar.String(username),
				"length":   cedar.Long(utf8.RuneCountInString(username)),
			}),
		},
	}

	req := cedar.Request{
		Principal: principal,
		Action:    registerAction,
		Resource:  usersStore,
		Context:   cedar.NewRecord(cedar.RecordMap{}),
	}

	decision, diag := cedar.Authorize(c.policies, entities, req)

	for _, e := range diag.Errors {
		c.logger.Warn(ctx, "policy evaluation error", "policy", e.PolicyID, "error", e.Message)
	}

	allowed := decision == cedar.Allow
	policyID := ""
	if len(diag.Reasons) > 0 {
		policyID = string(diag.Reasons[0].PolicyID)
	}
	c.logger.Debug(ctx, "approval decision", "username", username, "allowed", allowed, "policy_id", policyID)

	return allowed
}
