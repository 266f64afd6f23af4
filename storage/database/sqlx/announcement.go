package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/announcement"
	"github.com/kjboard/board/storage/database"
)

type announcementRepository struct {
	base
}

var _ announcement.Repository = (*announcementRepository)(nil) // interface compliance check

func NewAnnouncementRepository(exec core.DBExecutor) *announcementRepository {
	return &announcementRepository{base{exec: exec}}
}

func (repo announcementRepository) CreateAnnouncement(ctx context.Context, a announcement.Announcement, exec ...core.DBExecutor) (announcement.Announcement, error) {
	ex := repo.getExec(exec)
	err := ex.GetContext(ctx, &a.ID, q(ex, `
		INSERT INTO announcements (title, content, priority, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`),
		a.Title, a.Content, a.Priority, a.CreatedAt,
	)
	if err != nil {
		return announcement.Announcement{}, database.Classify(err, "inserting announcement")
	}
	return a, nil
}

func (repo announcementRepository) QueryAnnouncements(ctx context.Context, exec ...core.DBExecutor) ([]announcement.Announcement, error) {
	announcements := make([]announcement.Announcement, 0)
	err := repo.getExec(exec).SelectContext(ctx, &announcements, `
		SELECT id, title, content, priority, created_at
		FROM announcements
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "selecting announcements")
	}
	return announcements, nil
}
