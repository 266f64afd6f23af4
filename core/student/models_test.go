package student_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/student"
)

func TestNewStudent_Validate(t *testing.T) {
	validate, translator := core.NewValidator()

	tests := []struct {
		name     string
		data     student.NewStudent
		wantMsgs map[string]string
	}{
		{name: "valid", data: student.NewStudent{Name: " Asha ", RollNumber: "R100", Class: "10A", Email: "ASHA@test.in"}},
		{
			name: "required", data: student.NewStudent{Name: "   "},
			wantMsgs: map[string]string{
				"name":        "name is required",
				"roll_number": "roll_number is required",
				"class_name":  "class_name is required",
			},
		},
		{
			name: "bad email", data: student.NewStudent{Name: "Asha", RollNumber: "R100", Class: "10A", Email: "nope"},
			wantMsgs: map[string]string{"email": "email must be a valid email address"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate(validate)
			if tt.wantMsgs == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantMsgs, core.ValidationMessages(err, translator))
		})
	}
}

func TestNewStudent_Validate_cleans(t *testing.T) {
	validate, _ := core.NewValidator()

	ns := student.NewStudent{Name: "  Asha  ", RollNumber: " R100", Class: "10A ", Email: " ASHA@Test.in "}
	assert.NoError(t, ns.Validate(validate))
	assert.Equal(t, "Asha", ns.Name)
	assert.Equal(t, "R100", ns.RollNumber)
	assert.Equal(t, "10A", ns.Class)
	assert.Equal(t, "asha@test.in", ns.Email)
}
