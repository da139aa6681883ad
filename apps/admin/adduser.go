package main

import (
	"github.com/shuleapp/shule/core"
	"github.com/shuleapp/shule/core/user"
)

// addUser creates a user.User with the given role and PIN.
func (cli *commandLine) addUser(name, email, role, className, pin string) error {
	nu := user.NewUser{
		Name:      core.CleanString(name),
		Email:     core.CleanString(email, true /* lower */),
		Role:      user.Role(core.CleanString(role, true /* lower */)),
		ClassName: core.CleanString(className),
		PIN:       pin,
	}
	if err := nu.Validate(cli.usrSvc); err != nil {
		return err
	}
	if _, err := cli.usrSvc.Create(nu); err != nil {
		return err
	}
	return nil
}
