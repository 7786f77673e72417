package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"lorawan-transform-service/internal/analytics"
	"lorawan-transform-service/internal/codec/devices"
	"lorawan-transform-service/internal/config"
	"lorawan-transform-service/internal/infrastructure/database/postgres"
	"lorawan-transform-service/internal/ingestion"
	"lorawan-transform-service/internal/logger"
	"lorawan-transform-service/internal/pipeline"
	"lorawan-transform-service/internal/routes"
	pkgmqtt "lorawan-transform-service/pkg/mqtt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
	)

	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		logger.Fatal("Database configuration is missing. Please set DB_HOST and DB_NAME environment variables.")
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	uplinkRepository := postgres.NewUplinkRepository(db)
	deviceRepository := postgres.NewDeviceRepository(db)
	enrichmentRepository := postgres.NewEnrichmentRepository(db)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := deviceRepository.SeedBindings(seedCtx, devices.Catalog()); err != nil {
		seedCancel()
		logger.Fatal("Failed to seed codec bindings", zap.Error(err))
	}
	seedCancel()

	registry := devices.NewRegistry()
	logger.Info("Codec registry initialized", zap.Strings("codecs", registry.Names()))

	ingestService := ingestion.NewService(uplinkRepository, enrichmentRepository)

	// MQTT is optional: without a broker the service still ingests over HTTP
	// and decoded readings stay in Postgres.
	var (
		mqttClient   *pkgmqtt.Client
		mqttIngest   *ingestion.MQTTIngestClient
		forwarder    pipeline.ReadingForwarder
		mqttEnabled  = cfg.MQTT.Broker != ""
		clientConfig *pkgmqtt.Config
	)
	if mqttEnabled {
		clientConfig = &pkgmqtt.Config{
			Broker:               cfg.MQTT.Broker,
			ClientID:             cfg.MQTT.ClientID,
			Username:             cfg.MQTT.Username,
			Password:             cfg.MQTT.Password,
			CleanSession:         true,
			KeepAlive:            30,
			ConnectTimeout:       10,
			AutoReconnect:        true,
			MaxReconnectInterval: 1 * time.Minute,
		}

		if cfg.MQTT.UplinkTopic != "" {
			mqttIngest, err = ingestion.NewMQTTIngestClient(&ingestion.MQTTIngestConfig{
				ClientConfig: clientConfig,
				UplinkTopic:  cfg.MQTT.UplinkTopic,
				QoS:          byte(cfg.MQTT.QoS),
			}, ingestService)
			if err != nil {
				logger.Fatal("Failed to build MQTT ingest client", zap.Error(err))
			}
			if err := mqttIngest.Start(); err != nil {
				logger.Fatal("Failed to start MQTT ingest client", zap.Error(err))
			}
			defer mqttIngest.Stop()
		}

		if cfg.MQTT.ReadingTopic != "" {
			publisherConfig := *clientConfig
			publisherConfig.ClientID = clientConfig.ClientID + "-publisher"
			mqttClient = pkgmqtt.NewClient(&publisherConfig)
			if err := mqttClient.Connect(); err != nil {
				logger.Fatal("Failed to connect MQTT publisher", zap.Error(err))
			}
			defer mqttClient.Disconnect()

			forwarder, err = analytics.NewMQTTForwarder(mqttClient, cfg.MQTT.ReadingTopic, byte(cfg.MQTT.QoS))
			if err != nil {
				logger.Fatal("Failed to build reading forwarder", zap.Error(err))
			}
		}
	}

	stages := pipeline.NewStages(uplinkRepository, deviceRepository, enrichmentRepository, registry, forwarder, cfg.Pipeline.PageSize)
	scheduler := pipeline.NewScheduler(stages, cfg.Pipeline.Interval)
	scheduler.Start()
	defer scheduler.Stop()

	router := routes.SetupRoutes(cfg, db, ingestService)

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Failed to shutdown server", zap.Error(err))
	}

	logger.Info("Server exited properly")
}
