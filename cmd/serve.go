package cmd

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/content"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/controller"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/gateway"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/repository"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/service"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/types"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const adminKeyHeader = "X-Admin-Key"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start the HTTP (Echo) server for the foundation site backend.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type services struct {
	donation *service.DonationService
	contact  *service.ContactService
	loan     *service.LoanService
	content  *service.ContentService
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, svcs, cleanup := mustCreateServices()
	defer cleanup()

	e := setupHTTPServer(
		cfg,
		controller.NewDonationController(svcs.donation),
		controller.NewContactController(svcs.contact),
		controller.NewLoanController(svcs.loan),
		controller.NewContentController(svcs.content),
	)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}

	logrus.Info("Server stopped")
}

func setupHTTPServer(
	cfg *config.Config,
	donationController *controller.DonationController,
	contactController *controller.ContactController,
	loanController *controller.LoanController,
	contentController *controller.ContentController,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
				"request_id": v.RequestID,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.GET("/health", donationController.Health)

	api := e.Group("/api")
	api.POST("/donations/initiate", donationController.InitiateDonation)
	api.GET("/donations/verify", donationController.VerifyDonation)
	api.POST("/webhooks/lenco", donationController.HandleLencoWebhook)
	api.GET("/content/:page", contentController.GetPage)
	api.POST("/contact", contactController.SubmitMessage)
	api.POST("/loans/apply", loanController.SubmitApplication)

	admin := api.Group("/admin", requireAdminKey(cfg.App.AdminAPIKey))
	admin.GET("/donations", donationController.ListDonations)
	admin.GET("/donations/:reference", donationController.GetDonation)
	admin.GET("/content", contentController.ListPages)
	admin.PUT("/content/:page", contentController.UpdatePage)
	admin.GET("/messages", contactController.ListMessages)
	admin.POST("/messages/:id/read", contactController.MarkMessageRead)
	admin.DELETE("/messages/:id", contactController.DeleteMessage)
	admin.GET("/loans", loanController.ListApplications)
	admin.PUT("/loans/:id/status", loanController.UpdateApplicationStatus)

	return e
}

// requireAdminKey guards the admin group. With no key configured the group is
// disabled outright rather than left open.
func requireAdminKey(configuredKey string) echo.MiddlewareFunc {
	configuredKey = strings.TrimSpace(configuredKey)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if configuredKey == "" {
				return ctx.JSON(http.StatusServiceUnavailable, &types.ErrorResponse{Error: "admin access is not configured"})
			}
			provided := strings.TrimSpace(ctx.Request().Header.Get(adminKeyHeader))
			if subtle.ConstantTimeCompare([]byte(provided), []byte(configuredKey)) != 1 {
				return ctx.JSON(http.StatusUnauthorized, &types.ErrorResponse{Error: "unauthorized"})
			}
			return next(ctx)
		}
	}
}

func mustCreateServices() (*config.Config, *services, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	donationRepo := repository.NewDonationRepository(db)
	eventRepo := repository.NewDonationEventRepository(db)
	webhookRepo := repository.NewWebhookRecordRepository(db)
	contactRepo := repository.NewContactMessageRepository(db)
	loanRepo := repository.NewLoanApplicationRepository(db)

	lencoClient := gateway.NewLencoClient(gateway.LencoConfig{
		BaseURL:     cfg.Lenco.BaseURL,
		SecretKey:   cfg.Lenco.SecretKey,
		APIKey:      cfg.Lenco.APIKey,
		HTTPTimeout: cfg.Lenco.HTTPTimeout,
	})

	contentStore, err := content.NewStore(cfg.Content.Dir)
	if err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to open content store")
	}

	svcs := &services{
		donation: service.NewDonationService(
			donationRepo,
			eventRepo,
			webhookRepo,
			lencoClient,
			cfg.Donations,
			cfg.App.PublicBaseURL,
			cfg.Lenco.WebhookSecret,
		),
		contact: service.NewContactService(contactRepo),
		loan:    service.NewLoanService(loanRepo, cfg.Donations),
		content: service.NewContentService(contentStore),
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return cfg, svcs, cleanup
}
