package announcement

import (
	"context"
	"net/mail"
	"time"

	"github.com/kjboard/board/core"
)

type (
	Repository interface {
		CreateAnnouncement(ctx context.Context, a Announcement, exec ...core.DBExecutor) (Announcement, error)
		QueryAnnouncements(ctx context.Context, exec ...core.DBExecutor) ([]Announcement, error)
	}

	Service struct {
		repo       Repository
		mailSvc    core.EmailService
		recipients []mail.Address
	}
)

// NewService returns an announcement Service. Pressing announcements are mailed to recipients.
func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config, logger core.Logger) *Service {
	recipients := make([]mail.Address, 0, len(conf.Mail.AnnouncementRecipients))
	for _, r := range conf.Mail.AnnouncementRecipients {
		addr, err := mail.ParseAddress(r)
		if err != nil {
			logger.Warn("skipping invalid announcement recipient", err)
			continue
		}
		recipients = append(recipients, *addr)
	}
	return &Service{repo: repo, mailSvc: mailSvc, recipients: recipients}
}

func (svc *Service) Query(ctx context.Context) ([]Announcement, error) {
	return svc.repo.QueryAnnouncements(ctx)
}

func (svc *Service) Create(ctx context.Context, na NewAnnouncement) (Announcement, error) {
	priority := na.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	a, err := svc.repo.CreateAnnouncement(ctx, Announcement{
		Title:     na.Title,
		Content:   na.Content,
		Priority:  priority,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return Announcement{}, err
	}
	if a.IsPressing() {
		svc.notify(a)
	}
	return a, nil
}

func (svc *Service) notify(a Announcement) {
	if svc.mailSvc == nil || len(svc.recipients) == 0 {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{svc.recipients[0]},
		Bcc:          svc.recipients[1:],
		Subject:      "Announcement: " + a.Title,
		TemplateName: "announcement",
		TemplateData: a,
	})
}
