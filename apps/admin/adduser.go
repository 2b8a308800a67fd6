package main

import (
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/pfetrack/core"
	"github.com/trezcool/pfetrack/core/user"
)

// addUser updates or creates a supervisor account.
func (cli *commandLine) addUser(name, email, pwd string, isHead bool) error {
	var usr user.User
	var err error
	email = core.CleanString(email, true /* lower */)

	if usr, err = cli.usrRepo.GetUserByUsernameOrEmail(email); err != nil {
		if err != user.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		usr = user.User{
			ID:        uuid.New().String(),
			Email:     email,
			CreatedAt: now,
		}
	}
	usr.Name = core.CleanString(name)
	usr.Roles = []string{user.RoleSupervisor}
	if isHead {
		usr.Roles = user.SupervisorRoles
	}
	usr.IsActive = true
	usr.UpdatedAt = time.Now().UTC()
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err = cli.usrRepo.UpsertUser(usr); err != nil {
		return err
	}
	return nil
}
