package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/student"
	"github.com/kjboard/board/storage/database"
)

type studentRepository struct {
	base
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) *studentRepository {
	return &studentRepository{base{exec: exec}}
}

const studentColumns = `id, name, roll_number, class, email, phone, created_at`

func (repo studentRepository) CreateStudent(ctx context.Context, s student.Student, exec ...core.DBExecutor) (student.Student, error) {
	ex := repo.getExec(exec)
	err := ex.GetContext(ctx, &s.ID, q(ex, `
		INSERT INTO students (name, roll_number, class, email, phone, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`),
		s.Name, s.RollNumber, s.Class, s.Email, s.Phone, s.CreatedAt,
	)
	if err != nil {
		return student.Student{}, database.Classify(err, "inserting student")
	}
	return s, nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, exec ...core.DBExecutor) ([]student.Student, error) {
	students := make([]student.Student, 0)
	err := repo.getExec(exec).SelectContext(ctx, &students,
		`SELECT `+studentColumns+` FROM students ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	return students, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, id int64, exec ...core.DBExecutor) (student.Student, error) {
	var s student.Student
	ex := repo.getExec(exec)
	if err := ex.GetContext(ctx, &s, q(ex, `SELECT `+studentColumns+` FROM students WHERE id = ?`), id); err != nil {
		return student.Student{}, database.Classify(err, "selecting student")
	}
	return s, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, s student.Student, exec ...core.DBExecutor) (bool, error) {
	ex := repo.getExec(exec)
	res, err := ex.ExecContext(ctx, q(ex, `
		UPDATE students SET name = ?, roll_number = ?, class = ?, email = ?, phone = ?
		WHERE id = ?`),
		s.Name, s.RollNumber, s.Class, s.Email, s.Phone, s.ID,
	)
	if err != nil {
		return false, database.Classify(err, "updating student")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "counting updated students")
	}
	return n > 0, nil
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	ex := repo.getExec(exec)
	if _, err := ex.ExecContext(ctx, q(ex, `DELETE FROM students WHERE id = ?`), id); err != nil {
		return database.Classify(err, "deleting student")
	}
	return nil
}
