package student_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/student"
	"github.com/kjboard/board/storage/database/sqlx"
	"github.com/kjboard/board/tests"
)

func setup(t *testing.T) (*student.Service, *sqlx.DB) {
	db := testutil.PrepareDB(t)
	return student.NewService(db, sqlxrepos.NewStudentRepository(db), sqlxrepos.NewResultRepository(db)), db
}

func newStudent(name, roll, class string) student.NewStudent {
	return student.NewStudent{Name: name, RollNumber: roll, Class: class}
}

func TestService_Create(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	s, err := svc.Create(ctx, student.NewStudent{Name: "Asha", RollNumber: "R100", Class: "10A", Email: "asha@test.in"})
	require.NoError(t, err)
	assert.NotZero(t, s.ID)
	assert.Equal(t, "asha@test.in", s.Email.String)
	assert.False(t, s.Phone.Valid)

	got, err := svc.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, "R100", got.RollNumber)
	assert.Equal(t, "10A", got.Class)
	assert.False(t, got.Phone.Valid)
}

func TestService_Create_duplicateRollNumber(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, newStudent("Asha", "R100", "10A"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, newStudent("Ravi", "R100", "10B"))
	assert.Equal(t, core.ErrConstraintViolation, errors.Cause(err))

	students, err := svc.Query(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestService_Get_notFound(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.Get(context.Background(), 404)
	assert.Equal(t, core.ErrNotFound, errors.Cause(err))
}

func TestService_Query_newestFirst(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	for _, roll := range []string{"R1", "R2", "R3"} {
		_, err := svc.Create(ctx, newStudent("S "+roll, roll, "9A"))
		require.NoError(t, err)
	}

	students, err := svc.Query(ctx)
	require.NoError(t, err)
	require.Len(t, students, 3)
	assert.Equal(t, []string{"R3", "R2", "R1"}, []string{students[0].RollNumber, students[1].RollNumber, students[2].RollNumber})
}

func TestService_Update(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	s, err := svc.Create(ctx, newStudent("Asha", "R100", "10A"))
	require.NoError(t, err)
	other, err := svc.Create(ctx, newStudent("Ravi", "R101", "10A"))
	require.NoError(t, err)

	tests := []struct {
		name      string
		id        int64
		data      student.UpdateStudent
		wantFound bool
		wantErr   error
	}{
		{
			name: "overwrite", id: s.ID, wantFound: true,
			data: student.UpdateStudent{Name: "Asha K", RollNumber: "R100", Class: "11A", Phone: "0700"},
		},
		{
			name: "missing id is a no-op", id: s.ID + other.ID + 100,
			data: student.UpdateStudent{Name: "Ghost", RollNumber: "R999", Class: "1A"},
		},
		{
			name: "roll number taken", id: s.ID, wantErr: core.ErrConstraintViolation,
			data: student.UpdateStudent{Name: "Asha", RollNumber: "R101", Class: "10A"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := svc.Update(ctx, tt.id, tt.data)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
		})
	}

	got, err := svc.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha K", got.Name)
	assert.Equal(t, "11A", got.Class)
	assert.Equal(t, "0700", got.Phone.String)
	assert.False(t, got.Email.Valid)
}

func TestService_Delete_cascades(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	results := sqlxrepos.NewResultRepository(db)

	s, err := svc.Create(ctx, newStudent("Asha", "R100", "10A"))
	require.NoError(t, err)
	keep, err := svc.Create(ctx, newStudent("Ravi", "R101", "10A"))
	require.NoError(t, err)

	for _, subj := range []string{"Algebra", "Geometry", "Calculus"} {
		testutil.CreateResult(t, db, s.ID, subj, 10, 20)
	}
	testutil.CreateResult(t, db, keep.ID, "Algebra", 15, 20)

	require.NoError(t, svc.Delete(ctx, s.ID))

	_, err = svc.Get(ctx, s.ID)
	assert.Equal(t, core.ErrNotFound, errors.Cause(err))

	count, err := results.CountResultsByStudent(ctx, s.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = results.CountResultsByStudent(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestService_Delete_noResults(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	s, err := svc.Create(ctx, newStudent("Asha", "R100", "10A"))
	require.NoError(t, err)
	assert.NoError(t, svc.Delete(ctx, s.ID))

	// deleting again is not an error
	assert.NoError(t, svc.Delete(ctx, s.ID))
}

func TestService_Delete_failure(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	s, err := svc.Create(ctx, newStudent("Asha", "R100", "10A"))
	require.NoError(t, err)
	testutil.CreateResult(t, db, s.ID, "Algebra", 10, 20)

	require.NoError(t, db.Close())

	err = svc.Delete(ctx, s.ID)
	var delErr *student.DeleteFailedError
	require.True(t, errors.As(err, &delErr))
	assert.Equal(t, s.ID, delErr.ID)
}
