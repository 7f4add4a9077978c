package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/qcom/passguard/internal/config"
	"github.com/qcom/passguard/internal/handlers"
	"github.com/qcom/passguard/internal/mailer"
	"github.com/qcom/passguard/internal/metrics"
	"github.com/qcom/passguard/internal/middleware"
	"github.com/qcom/passguard/internal/otp"
	"github.com/qcom/passguard/internal/repository"
	"github.com/qcom/passguard/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.WithError(err).Warn("Invalid LOG_LEVEL, keeping info")
	} else {
		logger.SetLevel(level)
	}

	store, closeStore, err := initSessionStore(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize session store")
	}
	defer closeStore()

	m := metrics.New(prometheus.DefaultRegisterer)

	smtp, err := mailer.NewSMTP(mailer.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		Timeout:  cfg.SMTP.Timeout,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize mailer")
	}
	defer smtp.Close()

	verifier := otp.NewVerifier(
		mailer.NewOTPSender(smtp, cfg.SMTP.From),
		otp.NewBcryptHasher(cfg.OTP.HashCost),
		otp.WithTTL(cfg.OTP.Expiry),
	)

	// Initialize services
	sessionService, err := service.NewSessionService(store, &cfg.Session, m, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize session service")
	}
	otpService := service.NewOTPService(store, verifier, cfg.UserEmail, m, logger)
	passwordService := service.NewPasswordService(m, logger)

	rt := &handlers.Router{
		Sessions:          handlers.NewSessionHandlers(sessionService, logger),
		Passwords:         handlers.NewPasswordHandlers(passwordService, logger),
		OTP:               handlers.NewOTPHandlers(otpService, logger),
		SessionMiddleware: middleware.NewSessionMiddleware(sessionService, logger),
		Metrics:           promhttp.Handler(),
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      rt.Build(logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":          cfg.Server.Port,
			"session_store": cfg.Session.Store,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func initSessionStore(cfg *config.Config, logger *logrus.Logger) (repository.SessionStore, func(), error) {
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Endpoint,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.WithField("endpoint", cfg.Redis.Endpoint).Info("Redis client initialized")
		return repository.NewRedisSessionStore(client, logger), func() { client.Close() }, nil

	case config.SessionStoreDynamoDB:
		client, err := initDynamoDB(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewDynamoDBSessionStore(client, cfg.DynamoDB.TableName, logger), func() {}, nil

	default:
		logger.Info("Using in-memory session store")
		return repository.NewMemorySessionStore(), func() {}, nil
	}
}

func initDynamoDB(cfg *config.Config, logger *logrus.Logger) (*dynamodb.Client, error) {
	var awsCfg aws.Config
	var err error

	if cfg.DynamoDB.Endpoint != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(cfg.DynamoDB.Region),
			awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
				func(service, region string, options ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{
						URL:           cfg.DynamoDB.Endpoint,
						SigningRegion: cfg.DynamoDB.Region,
					}, nil
				})),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(cfg.DynamoDB.Region))
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg)
	logger.WithField("table", cfg.DynamoDB.TableName).Info("DynamoDB client initialized")
	return client, nil
}
