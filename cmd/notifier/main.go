package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/MrJusticeShai/odd-handyman-api/internal/cfg"
	"github.com/MrJusticeShai/odd-handyman-api/internal/notification"
	"github.com/MrJusticeShai/odd-handyman-api/internal/task"
)

func main() {
	conf := cfg.LoadConfig()
	logger := log.New(os.Stdout, "[notifier] ", log.LstdFlags|log.Lmicroseconds)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	brokers := splitCSV(conf.KafkaBrokers)
	if len(brokers) == 0 {
		logger.Fatal("KAFKA_BROKERS must be set")
	}
	if conf.KafkaTopic == "" {
		logger.Fatal("KAFKA_TOPIC must be set")
	}

	db := mustConnectDB(conf)
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatalf("failed to access sql DB: %v", err)
	}
	defer sqlDB.Close()

	taskRepo := task.NewRepository(db)
	notifier := notification.NewLogNotifier(logger)
	resolver := notification.NewTaskRecipientResolver(taskRepo)
	handler := notification.NewEventHandler(notifier, resolver)
	consumer := notification.NewKafkaConsumer(brokers, conf.KafkaTopic, conf.KafkaGroupID, handler)
	defer consumer.Close()

	errCh := make(chan error, 1)

	go func() {
		logger.Printf("Kafka consumer subscribing to topic=%s group=%s", conf.KafkaTopic, conf.KafkaGroupID)
		errCh <- consumer.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Println("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Printf("consumer error: %v", err)
		}
	}

	logger.Println("notifier stopped")
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
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
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
