package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/avkuzmin/catalog-admin/internal/config"
	"github.com/avkuzmin/catalog-admin/internal/db"
	"github.com/avkuzmin/catalog-admin/internal/events"
	"github.com/avkuzmin/catalog-admin/internal/httpserver"
	"github.com/avkuzmin/catalog-admin/internal/logging"
	"github.com/avkuzmin/catalog-admin/internal/media"
	loggingmw "github.com/avkuzmin/catalog-admin/internal/middleware/logging"
	"github.com/avkuzmin/catalog-admin/internal/search"
	"github.com/avkuzmin/catalog-admin/internal/session"
	"github.com/avkuzmin/catalog-admin/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LOG_LEVEL).With("service", "catalog-admin")
	slog.SetDefault(logger)

	var (
		store storage.Store
		med   media.Media
		gdb   *gorm.DB
	)
	if cfg.RemoteMode() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		gdb, err = db.Open(ctx, cfg.DATABASE_URL)
		cancel()
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		store = &storage.GormStore{DB: gdb}
		med = media.NewBucketMedia(cfg.STORAGE_URL, cfg.STORAGE_BUCKET, cfg.STORAGE_KEY)
		logger.Info("storage_selected", "mode", "remote")
	} else {
		store = storage.NewFileStore(cfg.DATA_DIR)
		med, err = media.NewLocalMedia(cfg.UPLOAD_DIR)
		if err != nil {
			log.Fatalf("upload dir: %v", err)
		}
		logger.Info("storage_selected", "mode", "local", "data_dir", cfg.DATA_DIR)
	}

	var producer *events.Producer
	if cfg.KAFKA_ADDRESS != "" {
		producer = events.NewProducer(cfg.KAFKA_ADDRESS, cfg.KAFKA_TOPIC)
	}

	var es *elasticsearch.Client
	if cfg.ES_URL != "" {
		es, err = search.NewClient(cfg)
		if err != nil {
			logger.Warn("search_disabled", "error", err)
			es = nil
		}
	}

	sessions := &session.Manager{Secret: []byte(cfg.SESSION_SECRET)}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	if cfg.ALLOWED_ORIGIN != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{cfg.ALLOWED_ORIGIN},
			AllowCredentials: true,
		}))
	} else {
		e.Use(echomw.CORS())
	}

	uploadDir := ""
	if !cfg.RemoteMode() {
		uploadDir = cfg.UPLOAD_DIR
	}

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHandler{Store: store, Sessions: sessions},
		ProductHandler: &httpserver.ProductHandler{
			Store:    store,
			Media:    med,
			Producer: producer,
			ES:       es,
			ESIndex:  cfg.ES_INDEX,
		},
		CourseHandler: &httpserver.CourseHandler{
			Store:    store,
			Media:    med,
			Producer: producer,
		},
		Sessions:  sessions,
		ES:        es,
		UploadDir: uploadDir,
		WebDir:    "web",
	})

	srv := &http.Server{
		Addr:              ":" + cfg.SERVER_PORT,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("catalog-admin listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	_ = producer.Close()

	if gdb != nil {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	log.Println("catalog-admin stopped")
}
