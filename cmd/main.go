package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/handlers"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/logger"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/mqtt"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/repository"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/server"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/service"
)

const (
	defaultSchedulerTick = 30 * time.Second
	defaultTokenTTL      = 12 * time.Hour
	shutdownTimeout      = 10 * time.Second
)

func main() {
	// load config.yml before the logger so log.level applies
	cfgErr := loadConfig()

	log := logger.Get(logLevel())
	if cfgErr != nil {
		log.Fatalw("error reading config", "err", cfgErr)
	}

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	repos := repository.NewRepository(db)

	// MQTT bridge is optional: without a broker the API still works,
	// but commands cannot be delivered and no device telemetry flows in.
	bridge := connectBridge(log)
	if bridge != nil {
		defer bridge.Close()
	}

	services := buildServices(repos, bridge, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if bridge != nil {
		subscribeTelemetry(ctx, bridge, services, log)
	}

	// fire due schedules in the background
	go services.ScheduleRunner.Run(ctx, schedulerTick())

	// start HTTP server
	apiHandler := handlers.NewHandler(services, log)
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func logLevel() string {
	if lvl := viper.GetString("log.level"); lvl != "" {
		return lvl
	}
	return logger.InfoLevel
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return repository.InitDB(dbPath)
}

// connectBridge dials the MQTT broker when one is configured.
func connectBridge(log *logger.Logger) *mqtt.Client {
	broker := viper.GetString("mqtt.broker")
	if broker == "" {
		log.Infow("mqtt.broker not set; device bridge disabled")
		return nil
	}
	bridge, err := mqtt.NewClient(mqtt.Config{
		Broker:      broker,
		ClientID:    viper.GetString("mqtt.client_id"),
		Username:    viper.GetString("mqtt.username"),
		Password:    viper.GetString("mqtt.password"),
		TopicPrefix: viper.GetString("mqtt.topic_prefix"),
	}, log)
	if err != nil {
		log.Fatalw("failed to connect to MQTT broker", "broker", broker, "err", err)
	}
	return bridge
}

func buildServices(repos *repository.Repository, bridge *mqtt.Client, log *logger.Logger) *service.Service {
	deps := service.Deps{
		Repos: repos,
		Auth: service.AuthConfig{
			SigningKey: viper.GetString("jwt.signing_key"),
			TokenTTL:   durationOr("jwt.token_ttl", defaultTokenTTL),
		},
		Log: log,
	}
	// A typed nil *mqtt.Client must not become a non-nil interface.
	if bridge != nil {
		deps.Publisher = bridge
		deps.Notifier = service.NewDispatcher(bridge, log)
	} else {
		deps.Notifier = service.NewDispatcher(nil, log)
	}
	if baseURL := viper.GetString("ml.base_url"); baseURL != "" {
		deps.ML = service.NewPredictionClient(baseURL, viper.GetDuration("ml.timeout"))
	}
	return service.NewService(deps)
}

// subscribeTelemetry routes inbound device status payloads into the
// telemetry pipeline, which runs the safety classifier on each sample.
func subscribeTelemetry(ctx context.Context, bridge *mqtt.Client, services *service.Service, log *logger.Logger) {
	err := bridge.SubscribeStatus(func(deviceID string, payload []byte) {
		sample, err := mqtt.StatusToSample(deviceID, payload)
		if err != nil {
			log.Infow("status_payload_rejected", "device_id", deviceID, "err", err)
			return
		}
		if _, err := services.Telemetry.Ingest(ctx, deviceID, sample); err != nil {
			log.Infow("status_ingest_failed", "device_id", deviceID, "err", err)
		}
	})
	if err != nil {
		log.Fatalw("failed to subscribe to device status topic", "err", err)
	}
}

func schedulerTick() time.Duration {
	return durationOr("scheduler.tick", defaultSchedulerTick)
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if d := viper.GetDuration(key); d > 0 {
		return d
	}
	return fallback
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
