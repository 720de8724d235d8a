//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/gearbox-rentals/service-rental/internal/application"
	bookingDomain "github.com/gearbox-rentals/service-rental/internal/domain/booking"
	carDomain "github.com/gearbox-rentals/service-rental/internal/domain/car"
	userDomain "github.com/gearbox-rentals/service-rental/internal/domain/user"
	"github.com/gearbox-rentals/service-rental/internal/kafka"
	"github.com/gearbox-rentals/service-rental/internal/repository"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// rentalStack holds wired-up rental service components.
type rentalStack struct {
	Bookings        *application.BookingService
	BookingRepo     *repository.GormBookingRepository
	CarRepo         *repository.GormCarRepository
	UserRepo        *repository.GormUserRepository
	CleanupProducer func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_rental",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_rental sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(
		&repository.UserModel{},
		&repository.CarModel{},
		&repository.BookingModel{},
	))

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, "rental.booking.events")

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupRentalStack wires up the booking service against real infrastructure.
func setupRentalStack(t *testing.T, db *gorm.DB, brokers []string) *rentalStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	userRepo := repository.NewGormUserRepository(db)
	carRepo := repository.NewGormCarRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	pricing := bookingDomain.NewPerDayPricingStrategy()
	producer := kafka.NewProducer(brokers, logger)

	bookingSvc := application.NewBookingService(bookingRepo, carRepo, userRepo, pricing, producer, logger)

	return &rentalStack{
		Bookings:        bookingSvc,
		BookingRepo:     bookingRepo,
		CarRepo:         carRepo,
		UserRepo:        userRepo,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedOwnerWithCar inserts an owner account and one listed car.
func seedOwnerWithCar(t *testing.T, stack *rentalStack) (ownerID uuid.UUID, car *carDomain.Car) {
	t.Helper()
	ctx := context.Background()

	owner, err := userDomain.NewUser("Integration Owner",
		fmt.Sprintf("owner-%s@example.com", uuid.New().String()[:8]), "$2a$10$test-hash")
	require.NoError(t, err)
	owner.PromoteToOwner()
	require.NoError(t, stack.UserRepo.Save(ctx, owner))

	car, err = carDomain.NewCar(owner.ID(), "Toyota", "Vios", 2023, "sedan", 5,
		"petrol", "automatic", 12000, "Kuala Lumpur", "integration car", "")
	require.NoError(t, err)
	require.NoError(t, stack.CarRepo.Save(ctx, car))

	return owner.ID(), car
}

// seedRenter inserts a renter account.
func seedRenter(t *testing.T, stack *rentalStack) uuid.UUID {
	t.Helper()
	renter, err := userDomain.NewUser("Integration Renter",
		fmt.Sprintf("renter-%s@example.com", uuid.New().String()[:8]), "$2a$10$test-hash")
	require.NoError(t, err)
	require.NoError(t, stack.UserRepo.Save(context.Background(), renter))
	return renter.ID()
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
