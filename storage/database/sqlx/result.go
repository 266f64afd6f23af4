package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/result"
	"github.com/kjboard/board/core/student"
	"github.com/kjboard/board/storage/database"
)

type resultRepository struct {
	base
}

var (
	_ result.Repository        = (*resultRepository)(nil) // interface compliance check
	_ student.DependentResults = (*resultRepository)(nil)
)

func NewResultRepository(exec core.DBExecutor) *resultRepository {
	return &resultRepository{base{exec: exec}}
}

const joinedResultsQuery = `
	SELECT r.id, r.student_id, r.subject, r.marks, r.total_marks, r.exam_date, r.created_at,
		s.name AS student_name, s.roll_number
	FROM results r
	JOIN students s ON r.student_id = s.id`

func (repo resultRepository) CreateResult(ctx context.Context, r result.Result, exec ...core.DBExecutor) (result.Result, error) {
	ex := repo.getExec(exec)
	err := ex.GetContext(ctx, &r.ID, q(ex, `
		INSERT INTO results (student_id, subject, marks, total_marks, exam_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`),
		r.StudentID, r.Subject, r.Marks, r.TotalMarks, r.ExamDate, r.CreatedAt,
	)
	if err != nil {
		return result.Result{}, database.Classify(err, "inserting result")
	}
	return r, nil
}

func (repo resultRepository) QueryResults(ctx context.Context, exec ...core.DBExecutor) ([]result.Result, error) {
	results := make([]result.Result, 0)
	err := repo.getExec(exec).SelectContext(ctx, &results, joinedResultsQuery+` ORDER BY r.created_at DESC, r.id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "selecting results")
	}
	return results, nil
}

func (repo resultRepository) QueryResultsByStudent(ctx context.Context, studentID int64, exec ...core.DBExecutor) ([]result.Result, error) {
	results := make([]result.Result, 0)
	ex := repo.getExec(exec)
	err := ex.SelectContext(ctx, &results,
		q(ex, joinedResultsQuery+` WHERE r.student_id = ? ORDER BY r.created_at DESC, r.id DESC`), studentID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting student results")
	}
	return results, nil
}

func (repo resultRepository) CountResultsByStudent(ctx context.Context, studentID int64, exec ...core.DBExecutor) (int, error) {
	var count int
	ex := repo.getExec(exec)
	if err := ex.GetContext(ctx, &count, q(ex, `SELECT COUNT(*) FROM results WHERE student_id = ?`), studentID); err != nil {
		return 0, errors.Wrap(err, "counting student results")
	}
	return count, nil
}

func (repo resultRepository) DeleteResultsByStudent(ctx context.Context, studentID int64, exec ...core.DBExecutor) (int64, error) {
	ex := repo.getExec(exec)
	res, err := ex.ExecContext(ctx, q(ex, `DELETE FROM results WHERE student_id = ?`), studentID)
	if err != nil {
		return 0, errors.Wrap(err, "deleting student results")
	}
	n, err := res.RowsAffected()
	return n, errors.Wrap(err, "counting deleted results")
}
