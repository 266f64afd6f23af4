package main

import (
	"log"
	"os"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/admin"
	"github.com/kjboard/board/services/logger"
	"github.com/kjboard/board/storage/database"
	"github.com/kjboard/board/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer db.Close()

	adminRepo := sqlxrepos.NewAdminRepository(db)

	// start CLI
	cli := commandLine{
		db:        db,
		conf:      conf,
		logger:    logger,
		adminRepo: adminRepo,
		adminSvc:  admin.NewService(db, adminRepo, adminRepo),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		_ = db.Close()
		os.Exit(1)
	}
}
