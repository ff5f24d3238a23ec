package main

import (
	"flag"
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/clearport/mepsfeed/internal/api"
	"github.com/clearport/mepsfeed/internal/config"
	"github.com/clearport/mepsfeed/internal/ingestion"
	"github.com/clearport/mepsfeed/internal/repository"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		zap.NewExample().Sugar().Fatalf("load config: %v", err)
	}

	log := newLogger(cfg.LogLevel)
	defer log.Sync()

	log.Infof("initializing database at %s", cfg.DBPath)
	db, err := repository.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("init db: %v", err)
	}
	defer db.Close()

	// Create repositories.
	fileRepo := repository.NewFileRepo(db)
	txnRepo := repository.NewTransactionRepo(db)
	failRepo := repository.NewFailureRepo(db)

	// Create services.
	ingestionSvc := ingestion.NewService(fileRepo, txnRepo, failRepo, log)

	// Create router.
	router := api.NewRouter(fileRepo, txnRepo, failRepo, ingestionSvc, log)

	log.Infof("MEPS clearing-file ingestion service")
	log.Infof("listening on %s", cfg.ListenAddr)
	log.Infof("endpoints:")
	log.Infof("  POST   /api/v1/files/ingest")
	log.Infof("  GET    /api/v1/files")
	log.Infof("  GET    /api/v1/files/{id}")
	log.Infof("  GET    /api/v1/files/{id}/transactions")
	log.Infof("  GET    /api/v1/files/{id}/report.xlsx")
	log.Infof("  GET    /api/v1/transactions")
	log.Infof("  GET    /api/v1/failures")
	log.Infof("  GET    /api/v1/failures/summary")
	log.Infof("  GET    /api/v1/dashboard")

	if err := http.ListenAndServe(cfg.ListenAddr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func newLogger(level string) *zap.SugaredLogger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zcfg.Build()
	if err != nil {
		panic(err)
	}
	return logger.Sugar()
}
