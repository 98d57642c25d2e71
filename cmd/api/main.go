package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/crm-inmobiliario/internal/bootstrap"
	httpRouter "github.com/jhoicas/crm-inmobiliario/internal/interfaces/http"
	"github.com/jhoicas/crm-inmobiliario/pkg/config"
	"github.com/jhoicas/crm-inmobiliario/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.App.StoreDriver).
		Bool("normalize_strict", cfg.Lotes.NormalizeStrict).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	backend, err := bootstrap.Open(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar backend")
	}
	defer backend.Close()

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:    cfg.App.Name,
		Log:     log.Named("http"),
		Metrics: backend.Metrics,
	}, httpRouter.RouterDeps{
		AuthUC:          backend.Auth,
		UserUC:          backend.Users,
		ClientUC:        backend.Clients,
		CatalogUC:       backend.Catalog,
		Engine:          backend.Engine,
		Query:           backend.Query,
		JWTSecret:       cfg.JWT.Secret,
		NormalizeStrict: cfg.Lotes.NormalizeStrict,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
