package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/facilops/chamados-service/internal/auth"
	"github.com/facilops/chamados-service/internal/config"
	"github.com/facilops/chamados-service/internal/database"
	"github.com/facilops/chamados-service/internal/events"
	"github.com/facilops/chamados-service/internal/handler"
	"github.com/facilops/chamados-service/internal/notify"
	"github.com/facilops/chamados-service/internal/report"
	"github.com/facilops/chamados-service/internal/router"
	"github.com/facilops/chamados-service/internal/service"
	"github.com/facilops/chamados-service/internal/store"
)

// API is the web application: migrations applied, store opened, components
// wired, one HTTP server.
type API struct {
	cfg      *config.Config
	httpSrv  *http.Server
	producer *events.Producer
}

func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	loc := cfg.Location()
	svc := service.NewChamadoService(store.New(db), loc)
	renderer, err := report.NewRenderer(loc)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	gate := auth.NewGate(cfg.AdminUser, cfg.AdminPass)
	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicChamado)
	notifier := notify.NewClient(cfg.WebhookURL)

	h := handler.New(svc, renderer, gate, producer, notifier)

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(h, renderer, cfg.SessionSecret),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{
		cfg:      cfg,
		httpSrv:  httpSrv,
		producer: producer,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", a.httpSrv.Addr)
	log.Printf("  Página pública: %s/", base)
	log.Printf("  Painel admin:   %s/admin", base)
	log.Printf("  Swagger UI:     %s/swagger", base)
	log.Printf("  Health:         %s/health", base)
	log.Printf("  Metrics:        %s/metrics", base)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.producer.Close(); err != nil {
		log.Printf("events: close: %v", err)
	}
	return nil
}
