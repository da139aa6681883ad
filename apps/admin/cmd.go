package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/shuleapp/shule/core/school"
	"github.com/shuleapp/shule/core/user"
)

var (
	readPINFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db        *sqlx.DB // nil on the in-memory engine
	usrSvc    *user.Service
	schoolSvc *school.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -name NAME -email EMAIL -role ROLE [-class CLASS] - create a user; the PIN is prompted next")
	fmt.Println("  resetpin -email EMAIL - reset a user's PIN")
	fmt.Println("  migrate - apply the database schema")
	fmt.Println("  seed - load demo users, classes, assignments and resources")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserEmail := addUserCmd.String("email", "", "The user's email.")
	addUserRole := addUserCmd.String("role", "", "One of: student, teacher, admin.")
	addUserClass := addUserCmd.String("class", "", "The student's class name.")

	resetPINCmd := flag.NewFlagSet("resetpin", flag.ExitOnError)
	resetPINEmail := resetPINCmd.String("email", "", "The user's email. The new PIN will be prompted next.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserName == "" || *addUserRole == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pin, err := cli.promptPIN()
		if err != nil {
			return err
		}
		return cli.addUser(*addUserName, *addUserEmail, *addUserRole, *addUserClass, pin)
	case "resetpin":
		if err := resetPINCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPINEmail == "" {
			resetPINCmd.Usage()
			return errHelp
		}
		pin, err := cli.promptPIN()
		if err != nil {
			return err
		}
		return cli.resetPIN(*resetPINEmail, pin)
	case "migrate":
		return cli.migrate()
	case "seed":
		return cli.seed()
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPIN() (string, error) {
	fmt.Print("Enter 4-digit PIN:")
	pin, err := readPINFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pin) == 0 {
		return "", errHelp
	}
	return string(pin), nil
}
