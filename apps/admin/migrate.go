package main

import (
	"context"

	"github.com/kjboard/board/storage/database"
)

var ensureSchemaFunc = database.EnsureSchema // mockable

func (cli *commandLine) migrate(ctx context.Context) error {
	return ensureSchemaFunc(ctx, cli.db, cli.adminRepo, cli.conf, cli.logger)
}
