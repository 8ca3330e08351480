package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/fairyhunter13/printshop/internal/config"
	httpapi "github.com/fairyhunter13/printshop/internal/http"
	"github.com/fairyhunter13/printshop/internal/mail"
	"github.com/fairyhunter13/printshop/internal/notify"
	"github.com/fairyhunter13/printshop/internal/obs"
	"github.com/fairyhunter13/printshop/internal/payment"
	"github.com/fairyhunter13/printshop/internal/shop"
	"github.com/fairyhunter13/printshop/internal/store"
	"github.com/fairyhunter13/printshop/internal/uploads"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("service_starting")

	if !cfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Migrate(); err != nil {
		return err
	}

	q := notify.NewQueue(128)
	mgr := notify.NewManager(cfg, q, st, mailSender(cfg))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mgr.Start(ctx)

	gateway := payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	svc := shop.NewService(st, gateway, mgr)
	app := httpapi.NewApp(cfg, st, svc, gateway, mgr, uploads.New(cfg.UploadDir))
	router := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	app.StartShutdown()
	obs.Logger.Info("shutdown_drain_begin", "backlog_size", mgr.BacklogSize(), "worker_count", mgr.WorkerCount())

	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelDrain()
	if drained := mgr.DrainUntil(ctxDrain); !drained {
		obs.Logger.Warn("shutdown_drain_timeout")
	} else {
		obs.Logger.Info("shutdown_drain_complete")
	}

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	mgr.Stop()
	obs.Logger.Info("service_stopped")
	return nil
}

// mailSender picks the SMTP relay when credentials are configured and the
// logging stand-in otherwise, so development never needs a mail account.
func mailSender(cfg config.Config) mail.Sender {
	if cfg.MailUsername != "" && cfg.MailPassword != "" {
		return mail.NewSMTPSender(cfg.MailHost, cfg.MailPort, cfg.MailUsername, cfg.MailPassword, cfg.MailSender)
	}
	return mail.LogSender{}
}
