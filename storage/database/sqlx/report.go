package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/announcement"
	"github.com/kjboard/board/core/report"
	"github.com/kjboard/board/core/result"
	"github.com/kjboard/board/core/student"
)

type reportRepository struct {
	base
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(exec core.DBExecutor) *reportRepository {
	return &reportRepository{base{exec: exec}}
}

func (repo reportRepository) count(ctx context.Context, table string, exec []core.DBExecutor) (int, error) {
	var count int
	if err := repo.getExec(exec).GetContext(ctx, &count, `SELECT COUNT(*) FROM `+table); err != nil {
		return 0, errors.Wrapf(err, "counting %s", table)
	}
	return count, nil
}

func (repo reportRepository) CountStudents(ctx context.Context, exec ...core.DBExecutor) (int, error) {
	return repo.count(ctx, "students", exec)
}

func (repo reportRepository) CountResults(ctx context.Context, exec ...core.DBExecutor) (int, error) {
	return repo.count(ctx, "results", exec)
}

func (repo reportRepository) CountAnnouncements(ctx context.Context, exec ...core.DBExecutor) (int, error) {
	return repo.count(ctx, "announcements", exec)
}

func (repo reportRepository) AverageScore(ctx context.Context, exec ...core.DBExecutor) (null.Float64, error) {
	var avg null.Float64
	err := repo.getExec(exec).GetContext(ctx, &avg, `
		SELECT AVG(CAST(marks AS FLOAT) / CAST(total_marks AS FLOAT) * 100)
		FROM results
		WHERE total_marks > 0`)
	if err != nil {
		return null.Float64{}, errors.Wrap(err, "averaging scores")
	}
	return avg, nil
}

func (repo reportRepository) RecentStudents(ctx context.Context, limit int, exec ...core.DBExecutor) ([]student.Student, error) {
	students := make([]student.Student, 0, limit)
	ex := repo.getExec(exec)
	err := ex.SelectContext(ctx, &students,
		q(ex, `SELECT `+studentColumns+` FROM students ORDER BY created_at DESC, id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, errors.Wrap(err, "selecting recent students")
	}
	return students, nil
}

func (repo reportRepository) RecentResults(ctx context.Context, limit int, exec ...core.DBExecutor) ([]result.Result, error) {
	results := make([]result.Result, 0, limit)
	ex := repo.getExec(exec)
	err := ex.SelectContext(ctx, &results,
		q(ex, joinedResultsQuery+` ORDER BY r.created_at DESC, r.id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, errors.Wrap(err, "selecting recent results")
	}
	return results, nil
}

func (repo reportRepository) RecentAnnouncements(ctx context.Context, limit int, exec ...core.DBExecutor) ([]announcement.Announcement, error) {
	announcements := make([]announcement.Announcement, 0, limit)
	ex := repo.getExec(exec)
	err := ex.SelectContext(ctx, &announcements, q(ex, `
		SELECT id, title, content, priority, created_at
		FROM announcements
		ORDER BY created_at DESC, id DESC
		LIMIT ?`), limit)
	if err != nil {
		return nil, errors.Wrap(err, "selecting recent announcements")
	}
	return announcements, nil
}
