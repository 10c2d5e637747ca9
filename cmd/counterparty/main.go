package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gartstein/counterparty/internal/counterparty/auth"
	"github.com/gartstein/counterparty/internal/counterparty/controller"
	gorm "github.com/gartstein/counterparty/internal/counterparty/db"
	"github.com/gartstein/counterparty/internal/counterparty/events"
	"github.com/gartstein/counterparty/internal/counterparty/handlers"
	"github.com/gartstein/counterparty/internal/counterparty/notices"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"gopkg.in/yaml.v3"
)

// Config is read from YAML and then overridden by environment variables.
type Config struct {
	GRPCPort int `yaml:"GRPC_PORT" envconfig:"GRPC_PORT"`
	HTTPPort int `yaml:"HTTP_PORT" envconfig:"HTTP_PORT"`

	DBDriver   string `yaml:"DB_DRIVER" envconfig:"DB_DRIVER"`
	DBHost     string `yaml:"DB_HOST" envconfig:"DB_HOST"`
	DBPort     int    `yaml:"DB_PORT" envconfig:"DB_PORT"`
	DBUser     string `yaml:"DB_USER" envconfig:"DB_USER"`
	DBPassword string `yaml:"DB_PASSWORD" envconfig:"DB_PASSWORD"`
	DBName     string `yaml:"DB_NAME" envconfig:"DB_NAME"`
	DBSSLMode  string `yaml:"DB_SSLMODE" envconfig:"DB_SSLMODE"`
	DBPath     string `yaml:"DB_PATH" envconfig:"DB_PATH"`

	KafkaBrokers []string `yaml:"KAFKA_BROKERS" envconfig:"KAFKA_BROKERS"`
	Topic        string   `yaml:"TOPIC" envconfig:"TOPIC"`

	JWTSecret          string        `yaml:"JWT_SECRET" envconfig:"JWT_SECRET"`
	Language           string        `yaml:"LANGUAGE" envconfig:"LANGUAGE"`
	TokenTTL           time.Duration `yaml:"TOKEN_TTL" envconfig:"TOKEN_TTL"`
	SessionIdleTimeout time.Duration `yaml:"SESSION_IDLE_TIMEOUT" envconfig:"SESSION_IDLE_TIMEOUT"`
	SweepSchedule      string        `yaml:"SWEEP_SCHEDULE" envconfig:"SWEEP_SCHEDULE"`
	HistorySize        int           `yaml:"HISTORY_SIZE" envconfig:"HISTORY_SIZE"`
	PendingOnlyInvites bool          `yaml:"INVITE_PENDING_ONLY" envconfig:"INVITE_PENDING_ONLY"`
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := gorm.NewRepository(initDatabase(cfg))
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	if err := repo.EnsureDefaultSeed(context.Background()); err != nil {
		logger.Fatal("failed to seed demo counterparties", zap.Error(err))
	}

	producer, closeProducer, err := initProducer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}

	svc := controller.NewCounterpartyService(repo, producer, notices.New(cfg.Language), logger, controller.Options{
		JWTSecret:          cfg.JWTSecret,
		TokenTTL:           cfg.TokenTTL,
		IdleTimeout:        cfg.SessionIdleTimeout,
		HistorySize:        cfg.HistorySize,
		PendingOnlyInvites: cfg.PendingOnlyInvites,
	})

	sweeper, err := svc.StartSweeper(cfg.SweepSchedule)
	if err != nil {
		logger.Fatal("failed to start session sweeper", zap.Error(err))
	}

	handler := handlers.NewCounterpartyHandler(svc, logger)

	authInterceptor := auth.NewAuthInterceptor(cfg.JWTSecret)
	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger, grpc.UnaryInterceptor(authInterceptor.Unary()))
	server.RegisterGRPCHandler(handler)

	if err := server.RegisterHTTPGateway(handler, cfg.JWTSecret); err != nil {
		logger.Fatal("Failed to register HTTP gateway", zap.Error(err))
	}
	if err := server.Listen(); err != nil {
		logger.Fatal("Failed to listen", zap.Error(err))
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start servers", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger, func() {
		<-sweeper.Stop().Done()
		closeProducer()
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	})
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// loadConfig reads CONFIG_PATH (or the bundled config.yaml) and applies
// environment overrides.
func loadConfig() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join("internal", "counterparty", "config", "config.yaml")
	}

	cfg := defaultConfig()
	file, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	case os.IsNotExist(err) && os.Getenv("CONFIG_PATH") == "":
		// environment only
	default:
		return nil, err
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		GRPCPort:           50051,
		HTTPPort:           8080,
		DBDriver:           gorm.DriverSQLite,
		DBPath:             "counterparty.db",
		Topic:              "counterparty-events",
		Language:           "ru",
		TokenTTL:           auth.DefaultTokenTTL,
		SessionIdleTimeout: 30 * time.Minute,
		SweepSchedule:      "@every 1m",
	}
}

// initDatabase maps the config onto the repository settings.
func initDatabase(cfg *Config) *gorm.Config {
	return &gorm.Config{
		Driver:   cfg.DBDriver,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Path:     cfg.DBPath,
	}
}

// initProducer publishes to Kafka when brokers are configured and discards
// events otherwise.
func initProducer(cfg *Config, logger *zap.Logger) (controller.EventProducer, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("No Kafka brokers configured, events are discarded")
		return events.NewNopProducer(logger), func() {}, nil
	}
	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		return nil, nil, err
	}
	return producer, producer.Close, nil
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then shuts down servers.
func waitForShutdown(server *handlers.Server, logger *zap.Logger, cleanup func()) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	cleanup()
	logger.Info("Servers stopped properly")
}

