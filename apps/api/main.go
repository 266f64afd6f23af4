package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/kjboard/board/apps/api/echo"
	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/admin"
	"github.com/kjboard/board/core/announcement"
	"github.com/kjboard/board/core/report"
	"github.com/kjboard/board/core/result"
	"github.com/kjboard/board/core/student"
	"github.com/kjboard/board/services/email"
	"github.com/kjboard/board/services/logger"
	"github.com/kjboard/board/storage/database"
	"github.com/kjboard/board/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug && conf.RollbarToken != "")

	// set up DB
	db, err := setUpDB(conf, dbLogger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug || conf.Mail.SendgridApiKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	studentRepo := sqlxrepos.NewStudentRepository(db)
	resultRepo := sqlxrepos.NewResultRepository(db)
	adminRepo := sqlxrepos.NewAdminRepository(db)

	studentSvc := student.NewService(db, studentRepo, resultRepo)
	resultSvc := result.NewService(db, resultRepo, studentRepo)
	announcementSvc := announcement.NewService(sqlxrepos.NewAnnouncementRepository(db), mailSvc, conf, logger)
	adminSvc := admin.NewService(db, adminRepo, adminRepo)
	reporter := report.NewReporter(sqlxrepos.NewReportRepository(db))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()
	core.ParseEmailTemplates(logger)

	// =========================================================================
	// Start Web Service

	server, err := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:            conf,
			Logger:          logger,
			StudentSvc:      studentSvc,
			ResultSvc:       resultSvc,
			AnnouncementSvc: announcementSvc,
			AdminSvc:        adminSvc,
			Reporter:        reporter,
			Validate:        validate,
			Translator:      translator,
		},
	)
	if err != nil {
		logger.Fatal(fmt.Sprintf("building server: %v", err), err)
	}

	go func() {
		server.Start()
	}()
	logger.Info("Server is running on " + conf.Server.Address)

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpDB opens the database and makes sure the tables exist.
// Schema failures are logged and do not stop the server.
func setUpDB(conf *core.Config, logger core.Logger) (*sqlx.DB, error) {
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(context.Background(), db, sqlxrepos.NewAdminRepository(db), conf, logger); err != nil {
		logger.Warn("schema setup incomplete", err)
	}
	return db, nil
}
