package result

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/kjboard/board/core"
)

const examDateLayout = "2006-01-02"

type Result struct {
	ID         int64     `db:"id"`
	StudentID  int64     `db:"student_id"`
	Subject    string    `db:"subject"`
	Marks      int       `db:"marks"`
	TotalMarks int       `db:"total_marks"`
	ExamDate   null.Time `db:"exam_date"`
	CreatedAt  time.Time `db:"created_at"` // UTC

	// owning Student, set by joined queries only
	StudentName string `db:"student_name"`
	RollNumber  string `db:"roll_number"`
}

// Percentage is marks over total marks, rounded; 0 when total marks is 0.
func (r Result) Percentage() int {
	if r.TotalMarks == 0 {
		return 0
	}
	return int(math.Round(float64(r.Marks) / float64(r.TotalMarks) * 100))
}

// NewResult contains information needed to record an exam Result.
type NewResult struct {
	StudentID  int64  `form:"student_id" validate:"required,gt=0"`
	Subject    string `form:"subject" validate:"required,notblank"`
	Marks      int    `form:"marks" validate:"min=0"`
	TotalMarks int    `form:"total_marks" validate:"min=0"`
	ExamDate   string `form:"exam_date" validate:"omitempty,datetime=2006-01-02"`
}

func (nr *NewResult) Validate(validate *validator.Validate) error {
	nr.Subject = core.CleanString(nr.Subject)
	nr.ExamDate = core.CleanString(nr.ExamDate)
	return validate.Struct(nr)
}

func (nr NewResult) examDate() null.Time {
	if nr.ExamDate == "" {
		return null.Time{}
	}
	t, err := time.Parse(examDateLayout, nr.ExamDate)
	if err != nil {
		return null.Time{}
	}
	return null.TimeFrom(t)
}
