package announcement_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/announcement"
	"github.com/kjboard/board/services/email"
	"github.com/kjboard/board/storage/database/sqlx"
	"github.com/kjboard/board/tests"
)

func TestService_Create(t *testing.T) {
	conf := testutil.Config(t)
	conf.Mail.AnnouncementRecipients = []string{"head@kj.test", "Staff <staff@kj.test>", "not an address"}
	logger := testutil.Logger()
	core.ParseEmailTemplates(logger)

	db := testutil.PrepareDB(t, conf)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	svc := announcement.NewService(sqlxrepos.NewAnnouncementRepository(db), mailSvc, conf, logger)
	ctx := context.Background()

	tests := []struct {
		name         string
		data         announcement.NewAnnouncement
		wantPriority string
		wantMails    int
	}{
		{name: "default priority", data: announcement.NewAnnouncement{Title: "Holiday", Content: "No class"}, wantPriority: "normal"},
		{name: "low", data: announcement.NewAnnouncement{Title: "Library", Content: "New books", Priority: "low"}, wantPriority: "low"},
		{name: "high notifies", data: announcement.NewAnnouncement{Title: "Exam moved", Content: "Now on Monday", Priority: "high"}, wantPriority: "high", wantMails: 1},
		{name: "urgent notifies", data: announcement.NewAnnouncement{Title: "Closure", Content: "School closed", Priority: "urgent"}, wantPriority: "urgent", wantMails: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := svc.Create(ctx, tt.data)
			require.NoError(t, err)
			assert.NotZero(t, a.ID)
			assert.Equal(t, tt.wantPriority, a.Priority)
			assert.Len(t, mailSvc.SentMessages(), tt.wantMails)
		})
	}

	sent := mailSvc.SentMessages()
	require.Len(t, sent, 2)
	msg := sent[1]
	require.Len(t, msg.To, 1)
	assert.Equal(t, "head@kj.test", msg.To[0].Address)
	require.Len(t, msg.Bcc, 1)
	assert.Equal(t, "staff@kj.test", msg.Bcc[0].Address)
	assert.Contains(t, msg.TextContent, "[urgent] Closure")
	assert.Contains(t, msg.HTMLContent, "School closed")

	announcements, err := svc.Query(ctx)
	require.NoError(t, err)
	require.Len(t, announcements, 4)
	assert.Equal(t, "Closure", announcements[0].Title)
	assert.Equal(t, "Holiday", announcements[3].Title)
}

func TestNewAnnouncement_Validate(t *testing.T) {
	validate, _ := core.NewValidator()

	tests := []struct {
		name         string
		data         announcement.NewAnnouncement
		wantErr      bool
		wantPriority string
	}{
		{name: "defaults to normal", data: announcement.NewAnnouncement{Title: "T", Content: "C"}, wantPriority: "normal"},
		{name: "lowers priority", data: announcement.NewAnnouncement{Title: "T", Content: "C", Priority: " URGENT "}, wantPriority: "urgent"},
		{name: "unknown priority", data: announcement.NewAnnouncement{Title: "T", Content: "C", Priority: "meh"}, wantErr: true},
		{name: "blank title", data: announcement.NewAnnouncement{Title: "  ", Content: "C"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPriority, tt.data.Priority)
		})
	}
}
