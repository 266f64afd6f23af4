package main

import (
	"context"
	"fmt"

	"github.com/kjboard/board/core/admin"
)

// addUser creates the admin `uname`, or resets its password when it exists.
func (cli *commandLine) addUser(ctx context.Context, uname, pwd string) error {
	if err := admin.ValidatePassword(pwd, uname); err != nil {
		return err
	}
	a, err := cli.adminSvc.Upsert(ctx, uname, pwd)
	if err != nil {
		return err
	}
	fmt.Printf("admin %q (id %d) is ready\n", a.Username, a.ID)
	return nil
}
