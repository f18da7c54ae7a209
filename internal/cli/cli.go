package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/credkeeper/internal/approval"
	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/services"
	"github.com/fatih/color"
)

type registrar interface {
	AddUser(ctx context.Context, username string, password []byte) (services.RegistrationResult, error)
}

type authenticator interface {
	Login(ctx context.Context, username string, password []byte) error
}

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
)

// CLI runs the interactive shell over a shared input reader.
type CLI struct {
	registrar     registrar
	authenticator authenticator
	reader        *bufio.Reader
	out           io.Writer
}

func New(r registrar, a authenticator, reader *bufio.Reader, out io.Writer) *CLI {
	return &CLI{registrar: r, authenticator: a, reader: reader, out: out}
}

// Run starts the shell and returns when input ends or the user exits.
func (c *CLI) Run(ctx context.Context) {
	fmt.Fprintln(c.out, "Welcome to credkeeper (type 'help' for commands)")
	runREPL(ctx, c, c.reader)
}

// Register prompts for a username and password and tries to create the
// account. The outcome is printed; the returned error is for callers that
// want it.
func (c *CLI) Register(ctx context.Context) error {
	userName, err := getSimpleText(c.reader, "Enter user name", c.out)
	if err != nil {
		return err
	}

	password, err := getPassword(c.reader, c.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := c.registrar.AddUser(ctx, userName, password)
	if err != nil {
		c.fail(describe(err))
		return err
	}

	switch res {
	case services.Registered:
		c.ok("User added successfully.")
	case services.UsernameTaken:
		c.fail(fmt.Sprintf("The username '%s' is already in use.", userName))
	case services.ApprovalDenied:
		c.fail("Supervisor approval is required.")
	}
	return res.Err()
}

// Login prompts for credentials and reports whether they are valid. It
// never says which of the two was wrong.
func (c *CLI) Login(ctx context.Context) error {
	userName, err := getSimpleText(c.reader, "Enter user name", c.out)
	if err != nil {
		return err
	}

	password, err := getPassword(c.reader, c.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := c.authenticator.Login(ctx, userName, password); err != nil {
		c.fail(describe(err))
		return err
	}

	c.ok("Login successful.")
	return nil
}

// Supervisor returns an approval callback that asks for confirmation on the
// same input the shell reads from.
func Supervisor(reader *bufio.Reader, out io.Writer) approval.Func {
	return func(_ context.Context, username string) bool {
		ok, err := GetConfirmation(reader, fmt.Sprintf("Supervisor: approve registration of '%s'?", username), out)
		return err == nil && ok
	}
}

func (c *CLI) ok(msg string) {
	okColor.Fprintln(c.out, msg)
}

func (c *CLI) fail(msg string) {
	failColor.Fprintln(c.out, msg)
}

func describe(err error) string {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, common.ErrInvalidUsername), errors.Is(err, common.ErrInvalidPassword):
		return fmt.Sprintf("Rejected: %v", err)
	case common.IsStoreError(err):
		return "Operation failed due to a database error."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
