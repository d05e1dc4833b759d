package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"matchpool/application"
	"matchpool/config"
	"matchpool/database"
	"matchpool/domain/interfaces"
	"matchpool/infrastructure"
	"matchpool/repository"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting match engine...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event publisher
	var publisher interfaces.EventPublisher
	var natsPublisher *infrastructure.NATSEventPublisher
	if cfg.NATSServers != "" {
		log.Printf("Connecting to NATS at %s...", cfg.NATSServers)
		natsPublisher, err = infrastructure.NewNATSEventPublisher(cfg.NATSServers)
		if err != nil {
			return fmt.Errorf("failed to initialize NATS publisher: %w", err)
		}
		publisher = natsPublisher
		log.Println("NATS connection established successfully")
	} else {
		log.Println("NATS_SERVERS not set, event publishing disabled")
		publisher = infrastructure.NewNoopEventPublisher()
	}

	// Initialize unit of work factory
	log.Println("Initializing unit of work factory...")
	uowFactory := repository.NewUnitOfWorkFactory(db)
	log.Println("Unit of work factory initialized successfully")

	// Initialize the match engine
	engine := application.NewEngine(uowFactory, publisher,
		application.WithTickWorkers(cfg.TickWorkers),
		application.WithLockRetry(cfg.LockRetries, cfg.LockRetryDelay),
	)

	// Start the state sync worker
	worker := application.NewStateSyncWorker(engine, cfg.TickInterval)
	stopWorker := worker.Start(ctx)
	log.Printf("State sync worker started with %s interval", cfg.TickInterval)

	// Wait for context cancellation
	log.Printf("Engine is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down engine...")

	stopWorker()

	if natsPublisher != nil {
		natsPublisher.Close()
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
