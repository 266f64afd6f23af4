package admin

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kjboard/board/core"
)

type (
	Repository interface {
		CountAdmins(ctx context.Context, exec ...core.DBExecutor) (int, error)
		CreateAdmin(ctx context.Context, a Admin, exec ...core.DBExecutor) (Admin, error)
		GetAdminByID(ctx context.Context, id int64, exec ...core.DBExecutor) (Admin, error)
		// GetAdminByUsername matches the username exactly (case-sensitive).
		GetAdminByUsername(ctx context.Context, username string, exec ...core.DBExecutor) (Admin, error)
		UpdateAdminPassword(ctx context.Context, a Admin, exec ...core.DBExecutor) error
	}

	// Purger wipes every student, result and announcement.
	Purger interface {
		PurgeRecords(ctx context.Context, exec ...core.DBExecutor) error
	}

	Service struct {
		db     core.DB
		repo   Repository
		purger Purger
	}
)

func NewService(db core.DB, repo Repository, purger Purger) *Service {
	return &Service{db: db, repo: repo, purger: purger}
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Admin, error) {
	return svc.repo.GetAdminByID(ctx, id)
}

func (svc *Service) GetByUsername(ctx context.Context, username string) (Admin, error) {
	return svc.repo.GetAdminByUsername(ctx, username)
}

// Authenticate returns the Admin matching the credentials, core.ErrUnauthorized otherwise.
func (svc *Service) Authenticate(ctx context.Context, username, pwd string) (Admin, error) {
	a, err := svc.repo.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Cause(err) == core.ErrNotFound {
			return Admin{}, core.ErrUnauthorized
		}
		return Admin{}, errors.Wrap(err, "finding admin by username")
	}
	if err := a.CheckPassword(pwd); err != nil {
		return Admin{}, core.ErrUnauthorized
	}
	return a, nil
}

// ChangePassword replaces the password of admin id once the current password checks out.
// The data must already be validated.
func (svc *Service) ChangePassword(ctx context.Context, id int64, data ChangePassword) error {
	return core.InTx(ctx, svc.db, func(tx core.DBTransactor) error {
		a, err := svc.repo.GetAdminByID(ctx, id, tx)
		if err != nil {
			return errors.Wrap(err, "finding admin by ID")
		}
		if err := a.CheckPassword(data.CurrentPassword); err != nil {
			return errors.Wrap(core.ErrUnauthorized, "checking current password")
		}
		if err := a.SetPassword(data.NewPassword); err != nil {
			return errors.Wrap(err, "hashing password")
		}
		return errors.Wrap(svc.repo.UpdateAdminPassword(ctx, a, tx), "updating password")
	})
}

// Upsert updates or creates the admin `username` with password `pwd`.
func (svc *Service) Upsert(ctx context.Context, username, pwd string) (Admin, error) {
	var a Admin
	err := core.InTx(ctx, svc.db, func(tx core.DBTransactor) error {
		var err error
		a, err = svc.repo.GetAdminByUsername(ctx, username, tx)
		if err != nil && errors.Cause(err) != core.ErrNotFound {
			return errors.Wrap(err, "finding admin by username")
		}
		if err := a.SetPassword(pwd); err != nil {
			return errors.Wrap(err, "hashing password")
		}
		if a.ID != 0 {
			return errors.Wrap(svc.repo.UpdateAdminPassword(ctx, a, tx), "updating password")
		}
		a.Username = username
		a.CreatedAt = time.Now().UTC()
		a, err = svc.repo.CreateAdmin(ctx, a, tx)
		return errors.Wrap(err, "creating admin")
	})
	return a, err
}

// ClearData deletes all results, students and announcements in one transaction. Admins are kept.
func (svc *Service) ClearData(ctx context.Context) error {
	return core.InTx(ctx, svc.db, func(tx core.DBTransactor) error {
		return svc.purger.PurgeRecords(ctx, tx)
	})
}
