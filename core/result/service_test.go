package result_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/result"
	"github.com/kjboard/board/storage/database/sqlx"
	"github.com/kjboard/board/tests"
)

func TestService_Create(t *testing.T) {
	db := testutil.PrepareDB(t)
	svc := result.NewService(db, sqlxrepos.NewResultRepository(db), sqlxrepos.NewStudentRepository(db))
	ctx := context.Background()

	asha := testutil.CreateStudent(t, db, "Asha", "R100", "10A")

	tests := []struct {
		name    string
		data    result.NewResult
		wantErr error
	}{
		{name: "with exam date", data: result.NewResult{StudentID: asha.ID, Subject: "Algebra", Marks: 18, TotalMarks: 20, ExamDate: "2024-03-15"}},
		{name: "without exam date", data: result.NewResult{StudentID: asha.ID, Subject: "Geometry", Marks: 7, TotalMarks: 10}},
		{name: "unknown student", data: result.NewResult{StudentID: asha.ID + 1000, Subject: "Algebra", Marks: 1, TotalMarks: 2}, wantErr: core.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Create(ctx, tt.data)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, res.ID)
			assert.Equal(t, tt.data.ExamDate != "", res.ExamDate.Valid)
		})
	}

	results, err := svc.QueryByStudent(ctx, asha.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Geometry", results[0].Subject)
	assert.Equal(t, "Algebra", results[1].Subject)
	assert.Equal(t, "2024-03-15", results[1].ExamDate.Time.Format("2006-01-02"))
}

func TestService_Query_joinsStudent(t *testing.T) {
	db := testutil.PrepareDB(t)
	svc := result.NewService(db, sqlxrepos.NewResultRepository(db), sqlxrepos.NewStudentRepository(db))

	asha := testutil.CreateStudent(t, db, "Asha", "R100", "10A")
	ravi := testutil.CreateStudent(t, db, "Ravi", "R101", "10A")
	testutil.CreateResult(t, db, asha.ID, "Algebra", 18, 20)
	testutil.CreateResult(t, db, ravi.ID, "Physics", 30, 50)

	results, err := svc.Query(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Ravi", results[0].StudentName)
	assert.Equal(t, "R101", results[0].RollNumber)
	assert.Equal(t, "Asha", results[1].StudentName)
	assert.Equal(t, 90, results[1].Percentage())
}

func TestResult_Percentage(t *testing.T) {
	tests := []struct {
		marks, total, want int
	}{
		{18, 20, 90},
		{1, 3, 33},
		{2, 3, 67},
		{5, 0, 0},
		{0, 10, 0},
	}
	for _, tt := range tests {
		r := result.Result{Marks: tt.marks, TotalMarks: tt.total}
		assert.Equal(t, tt.want, r.Percentage(), "%d/%d", tt.marks, tt.total)
	}
}

func TestNewResult_Validate(t *testing.T) {
	validate, translator := core.NewValidator()

	tests := []struct {
		name     string
		data     result.NewResult
		wantMsgs map[string]string
	}{
		{name: "valid", data: result.NewResult{StudentID: 1, Subject: " Algebra ", Marks: 0, TotalMarks: 0}},
		{
			name: "missing", data: result.NewResult{},
			wantMsgs: map[string]string{"student_id": "student_id is required", "subject": "subject is required"},
		},
		{
			name: "negative marks", data: result.NewResult{StudentID: 1, Subject: "Algebra", Marks: -1, TotalMarks: -5},
			wantMsgs: map[string]string{"marks": "marks must be 0 or greater", "total_marks": "total_marks must be 0 or greater"},
		},
		{
			name: "bad exam date", data: result.NewResult{StudentID: 1, Subject: "Algebra", ExamDate: "15/03/2024"},
			wantMsgs: map[string]string{"exam_date": ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate(validate)
			if tt.wantMsgs == nil {
				assert.NoError(t, err)
				return
			}
			msgs := core.ValidationMessages(err, translator)
			require.Len(t, msgs, len(tt.wantMsgs))
			for field, want := range tt.wantMsgs {
				require.Contains(t, msgs, field)
				if want != "" {
					assert.Equal(t, want, msgs[field])
				}
			}
		})
	}
}
