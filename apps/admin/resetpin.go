package main

import (
	"github.com/shuleapp/shule/core/user"
)

func (cli *commandLine) resetPIN(email, pin string) error {
	usr, err := cli.usrSvc.GetByEmail(email)
	if err != nil {
		return err
	}
	uu := user.UpdateUser{Name: usr.Name, Email: usr.Email, ClassName: usr.ClassName, PIN: pin}
	if err := uu.Validate(usr, cli.usrSvc); err != nil {
		return err
	}
	if _, err := cli.usrSvc.Update(usr.ID, uu); err != nil {
		return err
	}
	return nil
}
