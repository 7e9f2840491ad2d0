package main

import (
	"github.com/wfunc/cardbattle/config"
	"github.com/wfunc/cardbattle/logger"
	"github.com/wfunc/cardbattle/persistence"
	"github.com/wfunc/cardbattle/server"
)

func main() {
	// Initialize logger
	logger.Init()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize audit database; the game itself runs from memory
	var db persistence.Database = persistence.NewNoop()
	if cfg.Database.Enabled {
		gormDB, err := persistence.NewGormPostgreSQL(
			cfg.Database.Postgres.Host,
			cfg.Database.Postgres.Port,
			cfg.Database.Postgres.User,
			cfg.Database.Postgres.Password,
			cfg.Database.Postgres.DBName,
		)
		if err != nil {
			logger.Log.Warnf("Database connection failed, running without audit records: %v", err)
		} else {
			logger.Log.Info("Database connection successful.")
			db = gormDB
		}
	}
	defer db.Close()

	// Initialize Game Server
	gameServer := server.NewGameServer(cfg, db)

	// Start Server
	logger.Log.Infof("Starting card battle server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
