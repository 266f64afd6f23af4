package testutil

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/admin"
	"github.com/kjboard/board/core/announcement"
	"github.com/kjboard/board/core/result"
	"github.com/kjboard/board/core/student"
	"github.com/kjboard/board/services/logger"
	"github.com/kjboard/board/storage/database"
	"github.com/kjboard/board/storage/database/sqlx"
)

// Config returns the application config pointed at a fresh sqlite file under t.TempDir().
func Config(t *testing.T) *core.Config {
	conf := core.NewConfig()
	conf.Env = "TEST"
	conf.TestMode = true
	conf.Debug = true
	conf.Server.DisableReqLogs = true
	conf.Database.Engine = database.EngineSQLite
	conf.Database.URL = filepath.Join(t.TempDir(), "board.sqlite")
	conf.Mail.AnnouncementRecipients = nil
	return conf
}

// Logger returns a logger writing nowhere.
func Logger() core.Logger {
	return logsvc.NewRollbarLogger(log.New(io.Discard, "TEST : ", log.LstdFlags), &core.Config{Env: "TEST"})
}

// PrepareDB opens a sqlite database with the full schema; it is closed when the test ends.
func PrepareDB(t *testing.T, conf ...*core.Config) *sqlx.DB {
	var c *core.Config
	if len(conf) > 0 {
		c = conf[0]
	} else {
		c = Config(t)
	}
	db, err := database.Open(c)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.EnsureSchema(context.Background(), db, sqlxrepos.NewAdminRepository(db), c, Logger()); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

// ResetDB deletes every record, admins included.
func ResetDB(t *testing.T, db *sqlx.DB) {
	for _, table := range []string{"results", "students", "announcements", "admins"} {
		if _, err := db.Exec(`DELETE FROM ` + table); err != nil {
			t.Fatalf("ResetDB() failed: %v", err)
		}
	}
}

func CreateStudent(t *testing.T, db *sqlx.DB, name, rollNumber, class string, createdAt ...time.Time) student.Student {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	s, err := sqlxrepos.NewStudentRepository(db).CreateStudent(context.Background(), student.Student{
		Name:       name,
		RollNumber: rollNumber,
		Class:      class,
		CreatedAt:  tstamp,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

func CreateResult(t *testing.T, db *sqlx.DB, studentID int64, subject string, marks, totalMarks int, createdAt ...time.Time) result.Result {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	r, err := sqlxrepos.NewResultRepository(db).CreateResult(context.Background(), result.Result{
		StudentID:  studentID,
		Subject:    subject,
		Marks:      marks,
		TotalMarks: totalMarks,
		ExamDate:   null.Time{},
		CreatedAt:  tstamp,
	})
	if err != nil {
		t.Fatalf("CreateResult() failed: %v", err)
	}
	return r
}

func CreateAnnouncement(t *testing.T, db *sqlx.DB, title, content, priority string, createdAt ...time.Time) announcement.Announcement {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	a, err := sqlxrepos.NewAnnouncementRepository(db).CreateAnnouncement(context.Background(), announcement.Announcement{
		Title:     title,
		Content:   content,
		Priority:  priority,
		CreatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateAnnouncement() failed: %v", err)
	}
	return a
}

func CreateAdmin(t *testing.T, db *sqlx.DB, username, pwd string) admin.Admin {
	a := admin.Admin{Username: username, CreatedAt: time.Now().UTC()}
	if err := a.SetPassword(pwd); err != nil {
		t.Fatalf("CreateAdmin() failed: %v", err)
	}
	a, err := sqlxrepos.NewAdminRepository(db).CreateAdmin(context.Background(), a)
	if err != nil {
		t.Fatalf("CreateAdmin() failed: %v", err)
	}
	return a
}

// GetAdmin reloads an admin by username.
func GetAdmin(t *testing.T, db *sqlx.DB, username string) admin.Admin {
	a, err := sqlxrepos.NewAdminRepository(db).GetAdminByUsername(context.Background(), username)
	if err != nil {
		t.Fatalf("GetAdmin() failed: %v", err)
	}
	return a
}
