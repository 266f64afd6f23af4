package student

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/kjboard/board/core"
)

type Student struct {
	ID         int64       `db:"id"`
	Name       string      `db:"name"`
	RollNumber string      `db:"roll_number"`
	Class      string      `db:"class"`
	Email      null.String `db:"email"`
	Phone      null.String `db:"phone"`
	CreatedAt  time.Time   `db:"created_at"` // UTC
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name       string `form:"name" validate:"required,notblank"`
	RollNumber string `form:"roll_number" validate:"required,notblank"`
	Class      string `form:"class_name" validate:"required,notblank"`
	Email      string `form:"email" validate:"omitempty,email"`
	Phone      string `form:"phone"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.RollNumber = core.CleanString(ns.RollNumber)
	ns.Class = core.CleanString(ns.Class)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Every field is overwritten.
type UpdateStudent struct {
	Name       string `form:"name" validate:"required,notblank"`
	RollNumber string `form:"roll_number" validate:"required,notblank"`
	Class      string `form:"class_name" validate:"required,notblank"`
	Email      string `form:"email" validate:"omitempty,email"`
	Phone      string `form:"phone"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	us.Name = core.CleanString(us.Name)
	us.RollNumber = core.CleanString(us.RollNumber)
	us.Class = core.CleanString(us.Class)
	us.Email = core.CleanString(us.Email, true /* lower */)
	us.Phone = core.CleanString(us.Phone)
	return validate.Struct(us)
}

// optional maps an empty form value to NULL.
func optional(s string) null.String {
	return null.NewString(s, s != "")
}
