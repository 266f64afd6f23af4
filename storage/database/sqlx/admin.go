package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/admin"
	"github.com/kjboard/board/storage/database"
)

type adminRepository struct {
	base
}

var (
	_ admin.Repository = (*adminRepository)(nil) // interface compliance check
	_ admin.Purger     = (*adminRepository)(nil)
)

func NewAdminRepository(exec core.DBExecutor) *adminRepository {
	return &adminRepository{base{exec: exec}}
}

const adminColumns = `id, username, password_hash, created_at`

func (repo adminRepository) CountAdmins(ctx context.Context, exec ...core.DBExecutor) (int, error) {
	var count int
	if err := repo.getExec(exec).GetContext(ctx, &count, `SELECT COUNT(*) FROM admins`); err != nil {
		return 0, errors.Wrap(err, "counting admins")
	}
	return count, nil
}

func (repo adminRepository) CreateAdmin(ctx context.Context, a admin.Admin, exec ...core.DBExecutor) (admin.Admin, error) {
	ex := repo.getExec(exec)
	err := ex.GetContext(ctx, &a.ID, q(ex, `
		INSERT INTO admins (username, password_hash, created_at)
		VALUES (?, ?, ?)
		RETURNING id`),
		a.Username, a.PasswordHash, a.CreatedAt,
	)
	if err != nil {
		return admin.Admin{}, database.Classify(err, "inserting admin")
	}
	return a, nil
}

func (repo adminRepository) GetAdminByID(ctx context.Context, id int64, exec ...core.DBExecutor) (admin.Admin, error) {
	var a admin.Admin
	ex := repo.getExec(exec)
	if err := ex.GetContext(ctx, &a, q(ex, `SELECT `+adminColumns+` FROM admins WHERE id = ?`), id); err != nil {
		return admin.Admin{}, database.Classify(err, "selecting admin")
	}
	return a, nil
}

func (repo adminRepository) GetAdminByUsername(ctx context.Context, username string, exec ...core.DBExecutor) (admin.Admin, error) {
	var a admin.Admin
	ex := repo.getExec(exec)
	if err := ex.GetContext(ctx, &a, q(ex, `SELECT `+adminColumns+` FROM admins WHERE username = ?`), username); err != nil {
		return admin.Admin{}, database.Classify(err, "selecting admin")
	}
	return a, nil
}

func (repo adminRepository) UpdateAdminPassword(ctx context.Context, a admin.Admin, exec ...core.DBExecutor) error {
	ex := repo.getExec(exec)
	res, err := ex.ExecContext(ctx, q(ex, `UPDATE admins SET password_hash = ? WHERE id = ?`), a.PasswordHash, a.ID)
	if err != nil {
		return errors.Wrap(err, "updating admin password")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// PurgeRecords deletes results first so the students foreign key holds.
func (repo adminRepository) PurgeRecords(ctx context.Context, exec ...core.DBExecutor) error {
	ex := repo.getExec(exec)
	for _, table := range []string{"results", "students", "announcements"} {
		if _, err := ex.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return errors.Wrapf(err, "deleting %s", table)
		}
	}
	return nil
}
