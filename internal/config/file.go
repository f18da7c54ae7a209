package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/credkeeper/internal/flagx"
	"github.com/dmitrijs2005/credkeeper/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the config file. Pointer fields let a
// file override only the keys it mentions; everything else keeps its
// previous value.
type FileConfig struct {
	Backend            *string         `json:"backend" yaml:"backend"`
	DatabasePath       *string         `json:"database_path" yaml:"database_path"`
	StoreTimeout       *timex.Duration `json:"store_timeout" yaml:"store_timeout"`
	HashAlgorithm      *string         `json:"hash_algorithm" yaml:"hash_algorithm"`
	BcryptCost         *int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	MinPasswordLength  *int            `json:"min_password_length" yaml:"min_password_length"`
	ApprovalRequired   *bool           `json:"approval_required" yaml:"approval_required"`
	ApprovalMode       *string         `json:"approval_mode" yaml:"approval_mode"`
	ApprovalPolicyFile *string         `json:"approval_policy_file" yaml:"approval_policy_file"`
	LogBackend         *string         `json:"log_backend" yaml:"log_backend"`
	LogFormat          *string         `json:"log_format" yaml:"log_format"`
	LogLevel           *string         `json:"log_level" yaml:"log_level"`
}

// parseFile loads the file named by -c / -config, if any. Files ending in
// .yaml or .yml are decoded as YAML, anything else as JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setIf(&cfg.Backend, fc.Backend)
	setIf(&cfg.DatabasePath, fc.DatabasePath)
	if fc.StoreTimeout != nil {
		cfg.StoreTimeout = fc.StoreTimeout.Duration
	}
	setIf(&cfg.HashAlgorithm, fc.HashAlgorithm)
	setIf(&cfg.BcryptCost, fc.BcryptCost)
	setIf(&cfg.MinPasswordLength, fc.MinPasswordLength)
	setIf(&cfg.ApprovalRequired, fc.ApprovalRequired)
	setIf(&cfg.ApprovalMode, fc.ApprovalMode)
	setIf(&cfg.ApprovalPolicyFile, fc.ApprovalPolicyFile)
	setIf(&cfg.LogBackend, fc.LogBackend)
	setIf(&cfg.LogFormat, fc.LogFormat)
	setIf(&cfg.LogLevel, fc.LogLevel)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
