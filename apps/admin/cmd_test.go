package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/admin"
	"github.com/kjboard/board/storage/database"
	"github.com/kjboard/board/storage/database/sqlx"
	"github.com/kjboard/board/tests"
)

func setup(t *testing.T) *commandLine {
	conf := testutil.Config(t)
	db := testutil.PrepareDB(t, conf)
	adminRepo := sqlxrepos.NewAdminRepository(db)

	return &commandLine{
		db:        db,
		conf:      conf,
		logger:    testutil.Logger(),
		adminRepo: adminRepo,
		adminSvc:  admin.NewService(db, adminRepo, adminRepo),
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string   // typed at the prompt
	wantErr error
}

func mockPassword(t *testing.T, pwd string) {
	orig := readPasswordFunc
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = orig })
}

func checkErr(t *testing.T, err, wantErr error) {
	if wantErr == nil {
		assert.NoError(t, err)
		return
	}
	assert.Equal(t, wantErr, errors.Cause(err))
}

func Test_commandLine_usage(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "adduser without username", args: []string{"adduser"}, pwd: "S3cure-Pass", wantErr: errHelp},
		{name: "adduser blank username", args: []string{"adduser", "-username", "  "}, pwd: "S3cure-Pass", wantErr: errHelp},
		{name: "adduser without password", args: []string{"adduser", "-username", "principal"}, wantErr: errHelp},
		{name: "resetpassword without username", args: []string{"resetpassword"}, pwd: "S3cure-Pass", wantErr: errHelp},
		{name: "adduser help flag", args: []string{"adduser", "-h"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPassword(t, tt.pwd)
			checkErr(t, cli.run(append([]string{"admin"}, tt.args...)), tt.wantErr)
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	var calls int
	orig := ensureSchemaFunc
	ensureSchemaFunc = func(ctx context.Context, db *sqlx.DB, admins database.AdminStore, conf *core.Config, logger core.Logger) error {
		calls++
		return orig(ctx, db, admins, conf, logger)
	}
	t.Cleanup(func() { ensureSchemaFunc = orig })

	// idempotent
	require.NoError(t, cli.run([]string{"admin", "migrate"}))
	require.NoError(t, cli.run([]string{"admin", "migrate"}))
	assert.Equal(t, 2, calls)

	var count int
	require.NoError(t, cli.db.Get(&count, "SELECT COUNT(*) FROM admins"))
	assert.Equal(t, 1, count, "seed admin created once")
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "weak password", args: []string{"adduser", "-username", "principal"}, pwd: "short"},
		{name: "password like username", args: []string{"adduser", "-username", "principal"}, pwd: "principal1"},
		{name: "create", args: []string{"adduser", "-username", "principal"}, pwd: "S3cure-Pass"},
		{name: "existing admin", args: []string{"adduser", "-username", "principal"}, pwd: "0ther-Pass"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPassword(t, tt.pwd)
			err := cli.run(append([]string{"admin"}, tt.args...))
			if i < 2 {
				_, ok := errors.Cause(err).(*core.ValidationError)
				assert.True(t, ok, "want a validation error, got %v", err)
				return
			}
			require.NoError(t, err)
			a, err := cli.adminSvc.Authenticate(context.Background(), "principal", tt.pwd)
			require.NoError(t, err)
			assert.Equal(t, "principal", a.Username)
		})
	}

	var count int
	require.NoError(t, cli.db.Get(&count, "SELECT COUNT(*) FROM admins WHERE username = 'principal'"))
	assert.Equal(t, 1, count)
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)
	before := testutil.GetAdmin(t, cli.db, cli.conf.Admin.SeedUsername)

	tests := []cliTest{
		{name: "admin not found", args: []string{"resetpassword", "-username", "lol"}, pwd: "S3cure-Pass", wantErr: core.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-username", before.Username}, pwd: "S3cure-Pass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPassword(t, tt.pwd)
			checkErr(t, cli.run(append([]string{"admin"}, tt.args...)), tt.wantErr)
		})
	}

	after := testutil.GetAdmin(t, cli.db, before.Username)
	assert.False(t, bytes.Equal(before.PasswordHash, after.PasswordHash), "password not updated")
	assert.NoError(t, after.CheckPassword("S3cure-Pass"))
}
