package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/MrJusticeShai/odd-handyman-api/internal/auth"
	"github.com/MrJusticeShai/odd-handyman-api/internal/bid"
	"github.com/MrJusticeShai/odd-handyman-api/internal/cfg"
	"github.com/MrJusticeShai/odd-handyman-api/internal/chat"
	"github.com/MrJusticeShai/odd-handyman-api/internal/event"
	"github.com/MrJusticeShai/odd-handyman-api/internal/httpx"
	"github.com/MrJusticeShai/odd-handyman-api/internal/review"
	"github.com/MrJusticeShai/odd-handyman-api/internal/task"
)

func main() {
	conf := cfg.LoadConfig()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.Lmicroseconds)

	if conf.JWTSecret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}
	jwtSecret := []byte(conf.JWTSecret)

	db := mustConnectDB(conf)
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatalf("failed to access sql DB: %v", err)
	}
	defer sqlDB.Close()

	if err := db.AutoMigrate(&auth.User{}, &task.Task{}, &bid.Bid{}, &review.Review{}, &chat.ChatMessage{}); err != nil {
		logger.Fatalf("failed to migrate database: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.RedisAddr,
		Password: conf.RedisPassword,
	})
	defer rdb.Close()

	var producer event.Producer
	if brokers := splitCSV(conf.KafkaBrokers); len(brokers) > 0 && conf.KafkaTopic != "" {
		producer = event.NewKafkaProducer(brokers, conf.KafkaTopic)
		defer producer.Close()
	} else {
		logger.Println("KAFKA_BROKERS/KAFKA_TOPIC not set, lifecycle events disabled")
	}

	userRepo := auth.NewRepository(db)
	taskRepo := task.NewRepository(db)
	bidRepo := bid.NewRepository(db)
	reviewRepo := review.NewRepository(db)
	chatRepo := chat.NewRepository(db)

	userService := auth.NewUserService(userRepo, jwtSecret, conf.JWTTTLSeconds)
	taskService := task.NewTaskService(taskRepo, producer)
	bidService := bid.NewBidService(db, bidRepo, taskRepo, userRepo, producer)
	reviewService := review.NewReviewService(reviewRepo, taskRepo)
	chatService := chat.NewChatService(chatRepo, taskRepo, userRepo)

	authenticator := auth.NewAuthenticator(jwtSecret, rdb)

	mux := http.NewServeMux()
	auth.NewHandler(userService, authenticator, jwtSecret, rdb).RegisterHandlers(mux)
	task.NewHandler(taskService, authenticator).RegisterHandlers(mux)
	bid.NewHandler(bidService, authenticator).RegisterHandlers(mux)
	review.NewHandler(reviewService, authenticator).RegisterHandlers(mux)
	chat.NewHandler(chatService, authenticator).RegisterHandlers(mux)

	httpServer := &http.Server{
		Addr:    ":" + pickPort(conf.HTTPPort, "8080"),
		Handler: applyHTTPMiddleware(mux),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		logger.Printf("HTTP server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Println("shutdown signal received")
	case err := <-errCh:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("http shutdown error: %v", err)
	}
	logger.Println("api server stopped")
}

func mustConnectDB(conf cfg.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		conf.DBHost,
		conf.DBPort,
		conf.DBUser,
		conf.DBPassword,
		conf.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to init sql DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

func applyHTTPMiddleware(mux *http.ServeMux) http.Handler {
	handler := http.Handler(mux)
	handler = httpx.RequestSizeLimitMiddleware(1 << 20)(handler)
	handler = httpx.CORSMiddleware(handler)
	handler = httpx.SecurityHeadersMiddleware(handler)
	return handler
}

func pickPort(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
