package main

import (
	"context"

	"github.com/kjboard/board/core/admin"
)

func (cli *commandLine) resetPassword(ctx context.Context, uname, pwd string) error {
	if _, err := cli.adminSvc.GetByUsername(ctx, uname); err != nil {
		return err
	}
	if err := admin.ValidatePassword(pwd, uname); err != nil {
		return err
	}
	_, err := cli.adminSvc.Upsert(ctx, uname, pwd)
	return err
}
