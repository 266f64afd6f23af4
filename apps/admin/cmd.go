package main

import (
	"context"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/admin"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db        *sqlx.DB
	conf      *core.Config
	logger    core.Logger
	adminRepo admin.Repository
	adminSvc  *admin.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate - create missing tables and seed the default admin")
	fmt.Println("  adduser -username USERNAME - create an admin (or reset an existing one's password)")
	fmt.Println("  resetpassword -username USERNAME - reset an admin's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserUname := addUserCmd.String("username", "", "The admin's username. The password will be prompted next.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The admin's username. The password will be prompted next.")

	ctx := context.Background()

	switch args[1] {
	case "migrate":
		return cli.migrate(ctx)
	case "adduser":
		uname, pwd, err := parseCredentials(addUserCmd, addUserUname, args[2:])
		if err != nil {
			return err
		}
		return cli.addUser(ctx, uname, pwd)
	case "resetpassword":
		uname, pwd, err := parseCredentials(resetPasswordCmd, resetPasswordUname, args[2:])
		if err != nil {
			return err
		}
		return cli.resetPassword(ctx, uname, pwd)
	default:
		cli.printUsage()
		return errHelp
	}
}

// parseCredentials reads -username from args and prompts for the password.
func parseCredentials(cmd *flag.FlagSet, uname *string, args []string) (string, string, error) {
	if err := cmd.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return "", "", errHelp
		}
		return "", "", err
	}
	username := core.CleanString(*uname)
	if err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(username, "username"),
	).Check(); err != nil {
		cmd.Usage()
		return "", "", errHelp
	}

	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", "", err
	}
	if len(pwd) == 0 {
		cmd.Usage()
		return "", "", errHelp
	}
	return username, string(pwd), nil
}
