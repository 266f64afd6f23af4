package student

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/kjboard/board/core"
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, s Student, exec ...core.DBExecutor) (Student, error)
		QueryStudents(ctx context.Context, exec ...core.DBExecutor) ([]Student, error)
		GetStudent(ctx context.Context, id int64, exec ...core.DBExecutor) (Student, error)
		// UpdateStudent reports whether a row was changed.
		UpdateStudent(ctx context.Context, s Student, exec ...core.DBExecutor) (bool, error)
		DeleteStudent(ctx context.Context, id int64, exec ...core.DBExecutor) error
	}

	// DependentResults is the slice of the result store the cascading delete needs.
	DependentResults interface {
		CountResultsByStudent(ctx context.Context, studentID int64, exec ...core.DBExecutor) (int, error)
		DeleteResultsByStudent(ctx context.Context, studentID int64, exec ...core.DBExecutor) (int64, error)
	}

	Service struct {
		db      core.DB
		repo    Repository
		results DependentResults
	}
)

// DeleteFailedError is the single outcome of any failed phase of a cascading delete.
type DeleteFailedError struct {
	ID  int64
	Err error
}

func (e *DeleteFailedError) Error() string {
	return fmt.Sprintf("deleting student %d: %v", e.ID, e.Err)
}

func (e *DeleteFailedError) Unwrap() error { return e.Err }

func NewService(db core.DB, repo Repository, results DependentResults) *Service {
	return &Service{db: db, repo: repo, results: results}
}

func (svc *Service) Query(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryStudents(ctx)
}

func (svc *Service) Get(ctx context.Context, id int64) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

// Create inserts a Student; a duplicate roll number fails with core.ErrConstraintViolation.
func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	s := Student{
		Name:       ns.Name,
		RollNumber: ns.RollNumber,
		Class:      ns.Class,
		Email:      optional(ns.Email),
		Phone:      optional(ns.Phone),
		CreatedAt:  time.Now().UTC(),
	}
	return svc.repo.CreateStudent(ctx, s)
}

// Update overwrites a Student. Updating a missing id is a silent no-op: found is false and err is nil.
func (svc *Service) Update(ctx context.Context, id int64, us UpdateStudent) (found bool, err error) {
	s := Student{
		ID:         id,
		Name:       us.Name,
		RollNumber: us.RollNumber,
		Class:      us.Class,
		Email:      optional(us.Email),
		Phone:      optional(us.Phone),
	}
	return svc.repo.UpdateStudent(ctx, s)
}

// Delete removes the Student's Results, then the Student, in one transaction.
func (svc *Service) Delete(ctx context.Context, id int64) error {
	err := core.InTx(ctx, svc.db, func(tx core.DBTransactor) error {
		count, err := svc.results.CountResultsByStudent(ctx, id, tx)
		if err != nil {
			return errors.Wrap(err, "counting results")
		}
		if count > 0 {
			if _, err := svc.results.DeleteResultsByStudent(ctx, id, tx); err != nil {
				return errors.Wrap(err, "deleting results")
			}
		}
		return errors.Wrap(svc.repo.DeleteStudent(ctx, id, tx), "deleting student")
	})
	if err != nil {
		return &DeleteFailedError{ID: id, Err: err}
	}
	return nil
}
