package main

import (
	"context"
	"leadbook-service/internal/app/config"
	"leadbook-service/internal/app/delivery/http/middlewares"
	"leadbook-service/internal/app/delivery/http/routers"
	"leadbook-service/internal/app/drivers/database"
	"leadbook-service/internal/app/drivers/logger"
	"leadbook-service/internal/app/drivers/messaging"
	miniodriver "leadbook-service/internal/app/drivers/storage"
	"leadbook-service/internal/app/services/core/agentcalls"
	"leadbook-service/internal/app/services/core/bookings"
	"leadbook-service/internal/app/services/core/leads"
	"leadbook-service/internal/app/services/core/outreach"
	"leadbook-service/internal/app/services/core/resources"
	"leadbook-service/internal/app/services/shared/locker"
	"leadbook-service/internal/app/services/shared/outreachqueue"
	"leadbook-service/internal/app/services/shared/ratelimiter"
	redisrepo "leadbook-service/internal/app/services/shared/redis"
	miniostorage "leadbook-service/internal/app/services/shared/storage"
	"leadbook-service/internal/app/services/shared/voiceagent"
	"leadbook-service/internal/app/services/shared/whatsapp"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	bootLog := logger.NewLogrusLogger(internalConfig)
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		bootLog.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoClient := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQConnection := messaging.NewRabbitMQ(driverConfig)
	minioClient := miniodriver.NewMinio(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		MongoClient:    mongoClient,
		Redis:          redisClient,
		Logger:         zapLogger,
		RabbitMQ:       rabbitMQConnection,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}

	bootstrapTheApp(bootstrap, minioClient, bootLog)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			bootLog.Fatalf("Server failed to start: %v", err)
		}
	}()
	bootLog.Printf("Server listening on %s", internalConfig.App.Port)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests already received by the server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		bootLog.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		bootLog.Fatalf("Error closing application resources: %v", err)
	}

	bootLog.Println("Server exiting")
}

func bootstrapTheApp(bootstrap *config.Bootstrap, minioClient *minio.Client, bootLog *logrus.Logger) {
	internalConfig := bootstrap.InternalConfig

	// Shared services
	redisRepository := redisrepo.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, bootstrap.Logger)
	minioStorage := miniostorage.NewMinioStorage(minioClient)

	whatsAppService, err := whatsapp.NewWhatsAppService(bootstrap.RabbitMQ, bootstrap.Logger, internalConfig.RabbitMQ.WhatsAppQueue)
	if err != nil {
		bootLog.Fatalf("Error setting up WhatsApp publisher: %v", err)
	}
	outreachQueue, err := outreachqueue.NewService(bootstrap.RabbitMQ, bootstrap.Logger, internalConfig.RabbitMQ.OutreachPrefetch)
	if err != nil {
		bootLog.Fatalf("Error setting up outreach queue: %v", err)
	}

	// Middlewares
	httpMiddlewares := middlewares.NewMiddlewares(bootstrap.Logger, internalConfig)

	// Resources
	resourceMongoRepository := resources.NewResourceMongoRepository(bootstrap.MongoClient, bootstrap.DriverConfig.MongoDB.DbName)
	resourceUsecase := resources.NewResourceUsecase(resourceMongoRepository, redisRepository, internalConfig, bootstrap.Logger)
	resourceController := resources.NewResourceController(bootstrap.Logger, resourceUsecase)

	// Leads
	leadMongoRepository := leads.NewLeadMongoRepository(bootstrap.MongoClient, bootstrap.DriverConfig.MongoDB.DbName)
	leadUsecase := leads.NewLeadUsecase(leadMongoRepository, minioStorage, internalConfig, bootstrap.Logger)
	leadController := leads.NewLeadController(bootstrap.Logger, leadUsecase)

	// Bookings
	bookingMongoRepository := bookings.NewBookingMongoRepository(bootstrap.MongoClient, bootstrap.DriverConfig.MongoDB.DbName)
	bookingUsecase := bookings.NewBookingUsecase(
		bookingMongoRepository,
		resourceMongoRepository,
		leadMongoRepository,
		redisRepository,
		lockerService,
		internalConfig,
		bootstrap.Logger,
	)
	bookingController := bookings.NewBookingController(bootstrap.Logger, bookingUsecase)

	// Retry scheduling and the call-completed webhook
	retryScheduler := outreach.NewRetryScheduler(outreach.Policy{
		MaxAttempts:              internalConfig.Outreach.MaxAttempts,
		VoicemailMinDelayMinutes: internalConfig.Outreach.VoicemailMinDelayMinutes,
		VoicemailMaxDelayMinutes: internalConfig.Outreach.VoicemailMaxDelayMinutes,
		BusinessDayStartHour:     internalConfig.Outreach.BusinessDayStartHour,
		BusinessDayEndHour:       internalConfig.Outreach.BusinessDayEndHour,
		RetryBaseDelay:           time.Duration(internalConfig.Outreach.RetryBaseDelayInMinutes) * time.Minute,
		AppointmentBuffer:        time.Duration(internalConfig.Outreach.AppointmentBufferInHours) * time.Hour,
	})
	agentCallUsecase := agentcalls.NewAgentCallUsecase(
		leadMongoRepository,
		bookingMongoRepository,
		minioStorage,
		whatsAppService,
		retryScheduler,
		internalConfig,
		bootstrap.Logger,
	)
	agentCallController := agentcalls.NewAgentCallController(bootstrap.Logger, agentCallUsecase)

	// Outreach dispatch worker
	tenantLimiter := ratelimiter.NewResourceLimiter(redisRepository, bootstrap.Logger)
	dispatcher := outreach.NewDispatcher(bootstrap.Logger, internalConfig, leadMongoRepository, outreachQueue, tenantLimiter)
	voiceAgentService := voiceagent.NewVoiceAgentService(internalConfig, bootstrap.Logger)
	consumer := outreach.NewConsumer(bootstrap.Logger, internalConfig, outreachQueue, voiceAgentService)
	worker := outreach.NewWorker(bootstrap.Logger, internalConfig, lockerService, dispatcher, consumer)
	worker.Start(context.Background())
	bootstrap.WorkerStop = worker.Stop

	routers.SetupRoutes(
		bootstrap.Router,
		internalConfig,
		httpMiddlewares,
		resourceController,
		bookingController,
		leadController,
		agentCallController,
	)
}
