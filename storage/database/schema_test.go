package database_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/admin"
	"github.com/kjboard/board/storage/database"
	"github.com/kjboard/board/storage/database/sqlx"
	"github.com/kjboard/board/tests"
)

func TestEnsureSchema(t *testing.T) {
	conf := testutil.Config(t)
	db := testutil.PrepareDB(t, conf)
	ctx := context.Background()

	// running it again neither fails nor seeds a second admin
	require.NoError(t, database.EnsureSchema(ctx, db, sqlxrepos.NewAdminRepository(db), conf, testutil.Logger()))

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM admins`))
	assert.Equal(t, 1, count)

	adm := testutil.GetAdmin(t, db, conf.Admin.SeedUsername)
	assert.NoError(t, adm.CheckPassword(conf.Admin.SeedPassword))
	assert.NotEqual(t, conf.Admin.SeedPassword, string(adm.PasswordHash))
}

func TestEnsureSchema_keepsGoing(t *testing.T) {
	conf := testutil.Config(t)
	db := testutil.PrepareDB(t, conf)
	ctx := context.Background()

	// a view named like the results index makes that one statement fail
	_, err := db.Exec(`DROP INDEX results_student_id_idx`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE VIEW results_student_id_idx AS SELECT 1`)
	require.NoError(t, err)
	_, err = db.Exec(`DROP TABLE admins`)
	require.NoError(t, err)

	err = database.EnsureSchema(ctx, db, sqlxrepos.NewAdminRepository(db), conf, testutil.Logger())
	assert.Error(t, err)

	// later statements still ran
	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM admins`))
	assert.Equal(t, 1, count)
}

func TestOpen_unsupportedEngine(t *testing.T) {
	conf := testutil.Config(t)
	conf.Database.Engine = "mongo"

	_, err := database.Open(conf)
	assert.EqualError(t, err, `unsupported database engine "mongo"`)
}

type adminStoreMock struct {
	count    int
	countErr error
	created  []admin.Admin
}

func (m *adminStoreMock) CountAdmins(ctx context.Context, exec ...core.DBExecutor) (int, error) {
	return m.count, m.countErr
}

func (m *adminStoreMock) CreateAdmin(ctx context.Context, a admin.Admin, exec ...core.DBExecutor) (admin.Admin, error) {
	m.created = append(m.created, a)
	return a, nil
}

func TestEnsureSchema_seedsThroughStore(t *testing.T) {
	conf := testutil.Config(t)
	db := testutil.PrepareDB(t, conf)
	ctx := context.Background()
	errCount := errors.New("count failed")

	tests := []struct {
		name        string
		store       *adminStoreMock
		wantErr     error
		wantCreated int
	}{
		{name: "no admins", store: &adminStoreMock{}, wantCreated: 1},
		{name: "admins exist", store: &adminStoreMock{count: 2}},
		{name: "count fails", store: &adminStoreMock{countErr: errCount}, wantErr: errCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := database.EnsureSchema(ctx, db, tt.store, conf, testutil.Logger())
			assert.Equal(t, tt.wantErr, err)
			require.Len(t, tt.store.created, tt.wantCreated)
			if tt.wantCreated > 0 {
				seeded := tt.store.created[0]
				assert.Equal(t, conf.Admin.SeedUsername, seeded.Username)
				assert.NoError(t, seeded.CheckPassword(conf.Admin.SeedPassword))
			}
		})
	}
}
