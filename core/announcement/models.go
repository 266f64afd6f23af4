package announcement

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kjboard/board/core"
)

// Priorities
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var Priorities = []string{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}

type Announcement struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	Priority  string    `db:"priority"`
	CreatedAt time.Time `db:"created_at"` // UTC
}

// IsPressing reports whether subscribers should be notified.
func (a Announcement) IsPressing() bool {
	return a.Priority == PriorityHigh || a.Priority == PriorityUrgent
}

// NewAnnouncement contains information needed to post an Announcement.
type NewAnnouncement struct {
	Title    string `form:"title" validate:"required,notblank"`
	Content  string `form:"content" validate:"required,notblank"`
	Priority string `form:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

func (na *NewAnnouncement) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Content = core.CleanString(na.Content)
	na.Priority = core.CleanString(na.Priority, true /* lower */)
	if na.Priority == "" {
		na.Priority = PriorityNormal
	}
	return validate.Struct(na)
}
