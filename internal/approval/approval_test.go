package approval

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/credkeeper/internal/config"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPolicy = `
permit (
    principal,
    action == Action::"register",
    resource == Store::"users"
)
when { principal.length >= 3 };

forbid (
    principal == User::"root",
    action,
    resource
);

forbid (
    principal,
    action == Action::"register",
    resource
)
when { principal.username like "admin*" };
`

func TestStaticApprovers(t *testing.T) {
	ctx := context.Background()

	assert.True(t, AlwaysApprove{}.Approve(ctx, "alice"))
	assert.False(t, AlwaysDeny{}.Approve(ctx, "alice"))
}

func TestFunc(t *testing.T) {
	var seen []string
	f := Func(func(_ context.Context, username string) bool {
		seen = append(seen, username)
		return username == "alice"
	})

	assert.True(t, f.Approve(context.Background(), "alice"))
	assert.False(t, f.Approve(context.Background(), "mallory"))
	assert.Equal(t, []string{"alice", "mallory"}, seen)
}

func TestCedar_Approve(t *testing.T) {
	c, err := NewCedar("test.cedar", []byte(testPolicy), logging.Nop())
	require.NoError(t, err)

	tests := []struct {
		username string
		want     bool
	}{
		{username: "alice", want: true},
		{username: "bob", want: true},
		{username: "al", want: false},
		{username: "root", want: false},
		{username: "administrator", want: false},
		{username: "ünï", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Approve(context.Background(), tt.username))
		})
	}
}

func TestCedar_EmptyPolicySetDenies(t *testing.T) {
	c, err := NewCedar("empty.cedar", []byte(""), logging.Nop())
	require.NoError(t, err)

	assert.False(t, c.Approve(context.Background(), "alice"))
}

func TestCedar_ParseError(t *testing.T) {
	_, err := NewCedar("bad.cedar", []byte("permit (principal, action"), logging.Nop())
	require.Error(t, err)
}

func TestNew_PromptWithoutSupervisor(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ApprovalMode = config.ApprovalPrompt

	_, err := New(cfg, nil, logging.Nop())
	require.Error(t, err)
}

func TestNewCedarFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "approval.cedar")
	require.NoError(t, os.WriteFile(path, []byte(testPolicy), 0o600))

	c, err := NewCedarFromFile(path, logging.Nop())
	require.NoError(t, err)
	assert.True(t, c.Approve(context.Background(), "alice"))

	_, err = NewCedarFromFile(filepath.Join(t.TempDir(), "missing.cedar"), logging.Nop())
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "approval.cedar")
	require.NoError(t, os.WriteFile(path, []byte(testPolicy), 0o600))

	tests := []struct {
		name    string
		mode    string
		policy  string
		want    bool
		wantErr bool
	}{
		{name: "always", mode: config.ApprovalAlways, want: true},
		{name: "deny", mode: config.ApprovalDeny, want: false},
		{name: "cedar", mode: config.ApprovalCedar, policy: path, want: true},
		{name: "cedar missing file", mode: config.ApprovalCedar, policy: path + ".nope", wantErr: true},
		{name: "prompt", mode: config.ApprovalPrompt, want: true},
		{name: "unknown", mode: "vote", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.LoadDefaults()
			cfg.ApprovalMode = tt.mode
			cfg.ApprovalPolicyFile = tt.policy

			supervisor := Func(func(context.Context, string) bool { return true })
			a, err := New(cfg, supervisor, logging.Nop())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Approve(context.Background(), "alice"))
		})
	}
}
