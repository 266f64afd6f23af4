package result

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/student"
)

type (
	Repository interface {
		CreateResult(ctx context.Context, r Result, exec ...core.DBExecutor) (Result, error)
		// QueryResults returns every Result joined with its Student, newest first.
		QueryResults(ctx context.Context, exec ...core.DBExecutor) ([]Result, error)
		QueryResultsByStudent(ctx context.Context, studentID int64, exec ...core.DBExecutor) ([]Result, error)
	}

	StudentLookup interface {
		GetStudent(ctx context.Context, id int64, exec ...core.DBExecutor) (student.Student, error)
	}

	Service struct {
		db       core.DB
		repo     Repository
		students StudentLookup
	}
)

func NewService(db core.DB, repo Repository, students StudentLookup) *Service {
	return &Service{db: db, repo: repo, students: students}
}

func (svc *Service) Query(ctx context.Context) ([]Result, error) {
	return svc.repo.QueryResults(ctx)
}

func (svc *Service) QueryByStudent(ctx context.Context, studentID int64) ([]Result, error) {
	return svc.repo.QueryResultsByStudent(ctx, studentID)
}

// Create records a Result for an existing Student; an unknown student id fails with core.ErrNotFound.
func (svc *Service) Create(ctx context.Context, nr NewResult) (Result, error) {
	var res Result
	err := core.InTx(ctx, svc.db, func(tx core.DBTransactor) error {
		if _, err := svc.students.GetStudent(ctx, nr.StudentID, tx); err != nil {
			return errors.Wrap(err, "finding student")
		}
		var err error
		res, err = svc.repo.CreateResult(ctx, Result{
			StudentID:  nr.StudentID,
			Subject:    nr.Subject,
			Marks:      nr.Marks,
			TotalMarks: nr.TotalMarks,
			ExamDate:   nr.examDate(),
			CreatedAt:  time.Now().UTC(),
		}, tx)
		return errors.Wrap(err, "inserting result")
	})
	return res, err
}
