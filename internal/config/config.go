// Package config handles configuration for credkeeper: defaults, a JSON or
// YAML file overlay, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Password hashing schemes.
const (
	HashBcrypt      = "bcrypt"
	HashSHA512Crypt = "sha512-crypt"
)

// Registration approval modes.
const (
	ApprovalAlways = "always"
	ApprovalDeny   = "deny"
	ApprovalCedar  = "cedar"
	ApprovalPrompt = "prompt"
)

// Config holds runtime settings.
//
// Fields:
//   - Backend / DatabasePath: which embedded store to use and where its file lives.
//   - StoreTimeout: upper bound for a single store call.
//   - HashAlgorithm / BcryptCost: hashing policy for new registrations.
//   - MinPasswordLength: shortest accepted password.
//   - ApprovalRequired / ApprovalMode / ApprovalPolicyFile: registration gate.
//   - LogBackend / LogFormat / LogLevel: logging collaborator settings.
type Config struct {
	Backend            string        `env:"CREDKEEPER_BACKEND"`
	DatabasePath       string        `env:"CREDKEEPER_DATABASE_PATH"`
	StoreTimeout       time.Duration `env:"CREDKEEPER_STORE_TIMEOUT"`
	HashAlgorithm      string        `env:"CREDKEEPER_HASH_ALGORITHM"`
	BcryptCost         int           `env:"CREDKEEPER_BCRYPT_COST"`
	MinPasswordLength  int           `env:"CREDKEEPER_MIN_PASSWORD_LENGTH"`
	ApprovalRequired   bool          `env:"CREDKEEPER_APPROVAL_REQUIRED"`
	ApprovalMode       string        `env:"CREDKEEPER_APPROVAL_MODE"`
	ApprovalPolicyFile string        `env:"CREDKEEPER_APPROVAL_POLICY_FILE"`
	LogBackend         string        `env:"CREDKEEPER_LOG_BACKEND"`
	LogFormat          string        `env:"CREDKEEPER_LOG_FORMAT"`
	LogLevel           string        `env:"CREDKEEPER_LOG_LEVEL"`
}

// LoadDefaults populates Config with defaults suitable for a local store.
func (c *Config) LoadDefaults() {
	c.Backend = BackendSQLite
	c.DatabasePath = "user.db"
	c.StoreTimeout = 5 * time.Second
	c.HashAlgorithm = HashBcrypt
	c.BcryptCost = bcrypt.DefaultCost
	c.MinPasswordLength = 8
	c.ApprovalRequired = true
	c.ApprovalMode = ApprovalAlways
	c.ApprovalPolicyFile = ""
	c.LogBackend = "slog"
	c.LogFormat = "json"
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file, the environment and finally args
// (usually os.Args[1:]). The result is validated.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendBolt:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.DatabasePath == "" {
		return errors.New("database path is empty")
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("store timeout must be positive, got %s", c.StoreTimeout)
	}
	switch c.HashAlgorithm {
	case HashBcrypt, HashSHA512Crypt:
	default:
		return fmt.Errorf("unknown hash algorithm %q", c.HashAlgorithm)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost %d out of range [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.MinPasswordLength < 1 {
		return fmt.Errorf("min password length must be at least 1, got %d", c.MinPasswordLength)
	}
	switch c.ApprovalMode {
	case ApprovalAlways, ApprovalDeny, ApprovalPrompt:
	case ApprovalCedar:
		if c.ApprovalPolicyFile == "" {
			return errors.New("cedar approval mode needs a policy file")
		}
	default:
		return fmt.Errorf("unknown approval mode %q", c.ApprovalMode)
	}
	switch c.LogBackend {
	case "slog", "zap":
	default:
		return fmt.Errorf("unknown log backend %q", c.LogBackend)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	// both log backends parse these names
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
