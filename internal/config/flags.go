package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/credkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-b  string    storage backend (sqlite | bolt)
//	-d  string    database file path
//	-t  duration  store call timeout (e.g. 5s)
//	-a  string    hash algorithm (bcrypt | sha512-crypt)
//	-k  int       bcrypt cost
//	-m  int       minimum password length
//	-r  bool      require registration approval (use -r=false to disable)
//	-p  string    approval mode (always | deny | cedar | prompt)
//	-f  string    cedar policy file
//	-lb string    log backend (slog | zap)
//	-lf string    log format (json | text)
//	-ll string    log level
//
// args are first filtered with flagx.FilterArgs so flags owned by other
// components (such as -c) do not cause parse errors.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-b", "-d", "-t", "-a", "-k", "-m", "-r", "-p", "-f", "-lb", "-lf", "-ll"})

	fs := flag.NewFlagSet("credkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.Backend, "b", config.Backend, "storage backend")
	fs.StringVar(&config.DatabasePath, "d", config.DatabasePath, "database file path")
	fs.DurationVar(&config.StoreTimeout, "t", config.StoreTimeout, "store call timeout")
	fs.StringVar(&config.HashAlgorithm, "a", config.HashAlgorithm, "hash algorithm")
	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.IntVar(&config.MinPasswordLength, "m", config.MinPasswordLength, "minimum password length")
	fs.BoolVar(&config.ApprovalRequired, "r", config.ApprovalRequired, "require registration approval")
	fs.StringVar(&config.ApprovalMode, "p", config.ApprovalMode, "approval mode")
	fs.StringVar(&config.ApprovalPolicyFile, "f", config.ApprovalPolicyFile, "cedar policy file")
	fs.StringVar(&config.LogBackend, "lb", config.LogBackend, "log backend")
	fs.StringVar(&config.LogFormat, "lf", config.LogFormat, "log format")
	fs.StringVar(&config.LogLevel, "ll", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
