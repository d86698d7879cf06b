package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "time/tzdata"

	"timeclock/internal/config"
	"timeclock/internal/handler"
	"timeclock/internal/logger"
	"timeclock/internal/middleware"
	"timeclock/internal/service"
	"timeclock/internal/store"
	"timeclock/internal/timesheet"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logCloser := logger.Init(cfg.Log)
	defer logCloser.Close()

	db, err := cfg.OpenGormDB()
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := store.Migrate(db); err != nil {
		logger.Error("db migrate failed", "err", err)
		os.Exit(1)
	}
	st := store.New(db)

	clock := timesheet.SystemClock{Location: cfg.Location()}
	schedule := cfg.Schedule()
	signer := middleware.NewSigner(cfg.Auth.JWTSecret, cfg.TokenTTL())

	var pusher service.Pusher
	if cfg.Push.Enabled() {
		fcm, err := service.NewFCMPusher(context.Background(), cfg.Push.ProjectID, cfg.Push.CredentialsFile)
		if err != nil {
			logger.Warn("push disabled", "err", err)
		} else {
			pusher = fcm
			logger.Info("fcm push enabled", "project", cfg.Push.ProjectID)
		}
	}
	uploader := service.NewDropboxUploader(cfg.Dropbox.AccessToken, cfg.Dropbox.Folder, cfg.Dropbox.APIURL, cfg.Dropbox.ContentURL)
	if uploader != nil {
		logger.Info("dropbox uploads enabled", "reports", cfg.Dropbox.Folder, "photos", cfg.Dropbox.PhotoFolder)
	}

	authSvc := service.NewAuthService(st.Users)
	userSvc := service.NewUserService(st.Users)
	tsSvc := service.NewTimesheetService(st.Timesheets, clock, schedule)
	reportSvc := service.NewReportService(st.Users, st.Timesheets, clock, schedule)
	exportSvc := service.NewExportService(reportSvc, uploader)
	profileSvc := service.NewProfileService(st.Users, uploader, cfg.Dropbox.PhotoFolder)
	broker := service.NewBroker()
	notifySvc := service.NewNotificationService(st.Notifications, st.Users, pusher, broker)

	r := handler.NewRouter(handler.Handlers{
		Auth:          handler.NewAuthHandler(authSvc, userSvc, st.Users, signer),
		Profile:       handler.NewProfileHandler(profileSvc, st.Users),
		Timesheet:     handler.NewTimesheetHandler(tsSvc, st.Users),
		Users:         handler.NewUserHandler(userSvc),
		Reports:       handler.NewReportHandler(reportSvc, exportSvc),
		Notifications: handler.NewNotificationHandler(notifySvc, st.Users),
	}, signer, cfg.Server.CORSOrigins)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r, ReadHeaderTimeout: 10 * time.Second}
	srv.RegisterOnShutdown(broker.Close)

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		logger.Error("listen failed", "addr", cfg.Addr(), "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("server starting", "addr", cfg.Addr(), "timezone", cfg.Work.Timezone, "db", cfg.Database.Driver)
	if err := serve(ctx, srv, ln, 15*time.Second); err != nil {
		logger.Error("server failed", "err", err)
	}
}
