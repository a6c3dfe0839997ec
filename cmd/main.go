package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	applyReconciliationHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/apply_reconciliation"
	createBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_booking"
	getReconciliationReportHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_reconciliation_report"
	getStaffDatesHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_staff_dates"
	getStaffTimesHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_staff_times"
	getVariantStaffHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_variant_staff"
	importMastersHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/import_masters"
	removeMasterServicesHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/remove_master_services"
	resolveMappingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/resolve_mapping"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/app"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SalonBooking...")

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	application, err := app.New(startCtx, cfg, log)
	cancelStart()
	if err != nil {
		log.Fatal("Failed to initialize application: %v", err)
	}
	defer application.Close()

	// Инициализируем handlers
	getVariantStaff := getVariantStaffHandler.NewHandler(application.Availability, log)
	getStaffDates := getStaffDatesHandler.NewHandler(application.Availability, log)
	getStaffTimes := getStaffTimesHandler.NewHandler(application.Availability, log)
	createBooking := createBookingHandler.NewHandler(
		application.CreateBooking,
		application.Guard,
		time.Duration(cfg.Booking.ConfirmationTTL)*time.Second,
		log,
	)
	resolveMapping := resolveMappingHandler.NewHandler(application.Resolver, log)
	getReport := getReconciliationReportHandler.NewHandler(application.Reconciliation, log)
	applyReconciliation := applyReconciliationHandler.NewHandler(application.Reconciliation, log)
	removeMasterServices := removeMasterServicesHandler.NewHandler(application.Reconciliation, log)
	importMasters := importMastersHandler.NewHandler(application.Reconciliation, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(application.Metrics))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Мастер записи ---
	api.HandleFunc("/variants/{variantId}/staff", getVariantStaff.Handle).Methods(http.MethodGet)
	api.HandleFunc("/staff/{staffId}/dates", getStaffDates.Handle).Methods(http.MethodGet)
	api.HandleFunc("/staff/{staffId}/times", getStaffTimes.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// --- Сопоставление и сверка (для администраторов) ---
	api.HandleFunc("/mappings/{externalId}", resolveMapping.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reconciliation/report", getReport.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reconciliation/masters/{masterId}/sync", applyReconciliation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reconciliation/import-masters", importMasters.Handle).Methods(http.MethodPost)
	api.HandleFunc("/masters/{masterId}/services", removeMasterServices.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
