package main

import (
	"context"
	"fmt"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"github.com/ChickenSoup269/Zero-Movie-sub001/config"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/booking/handler"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/booking/repositories"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/booking/usecases"
	paymentgateway "github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/payment/gateway"
	seatrepo "github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/seat/repositories"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/backoff"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/database"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/http"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/httpclient"
	log_internal "github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/log"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/messagestream"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/middleware"
	redis_internal "github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/redis"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/scheduler"
	router "github.com/ChickenSoup269/Zero-Movie-sub001/internal/route"
)

func main() {
	cfg := config.InitConfig()

	app, messageRouters, sched, bookingHandler := initService(cfg)

	for _, messageRouter := range messageRouters {
		ctx := context.Background()
		go func(r *message.Router) {
			if err := r.Run(ctx); err != nil {
				log.Fatal(err)
			}
		}(messageRouter)
	}

	// background workers: delayed hold expiry, periodic sweep, monitoring
	go sched.StartHandler(&cfg.Redis,
		[]string{scheduler.TypeHoldExpired, scheduler.TypeSweepHolds},
		[]func(ctx context.Context, t *asynq.Task) error{
			bookingHandler.HandleHoldExpired,
			bookingHandler.HandleSweepHolds,
		},
	)
	go sched.StartPeriodic(&cfg.Redis, cfg.Booking.SweepInterval.String())
	go sched.StartMonitoring(&cfg.Redis)

	// start http server
	http.StartHttpServer(app, cfg.HttpServer.Port)
}

func initService(cfg *config.Config) (*fiber.App, []*message.Router, *scheduler.Scheduler, *handler.BookingHandler) {

	// init database
	db := database.GetConnection(&cfg.Database)
	// init redis
	redisClient := redis_internal.SetupClient(&cfg.Redis)
	rs := redis_internal.SetupRedsync(redisClient)
	// init logger
	logger := log_internal.Setup()
	// init http client
	cb := httpclient.InitCircuitBreaker(&cfg.HttpClient, cfg.HttpClient.Type)
	httpClient := httpclient.InitHttpClient(&cfg.HttpClient, cb)

	ctx := context.Background()
	// init message stream
	amqp := messagestream.NewAmpq(&cfg.MessageStream)

	// Init Subscriber
	subscriber, err := amqp.NewSubscriber()
	if err != nil {
		logger.Ctx(ctx).Error(fmt.Sprintf("Failed to create subscriber: %v", err))
	}

	// Init Publisher
	publisher, err := amqp.NewPublisher()
	if err != nil {
		logger.Ctx(ctx).Error(fmt.Sprintf("Failed to create publisher: %v", err))
	}

	// init scheduler
	sched := &scheduler.Scheduler{Log: logger}
	asynqClient := sched.InitClient(&cfg.Redis)
	asynqInspector := asynq.NewInspector(asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	bookingRepo := repositories.New(db, logger, httpClient, &cfg.UserService, &cfg.CatalogService, asynqClient, asynqInspector)
	seatLedger := seatrepo.New(redisClient, rs, logger, cfg.Booking.HoldTimeout)
	gateway := paymentgateway.New(&cfg.PaymentGateway, httpClient, redisClient, logger)

	bookingUsecase := usecases.New(bookingRepo, seatLedger, gateway, logger, publisher, backoff.DefaultPolicy(), cfg.Booking.HoldTimeout, cfg.Booking.Currency)

	m := &middleware.Middleware{
		Log:  logger,
		Repo: bookingRepo,
	}

	v := validator.New()
	bookingHandler := &handler.BookingHandler{
		Log:       logger,
		Validator: v,
		Usecase:   bookingUsecase,
		Publish:   publisher,
	}

	var messageRouters []*message.Router

	reconciliationRouter, err := messagestream.NewRouter(publisher, "reconciliation_poisoned", "booking_reconciliation_handler", usecases.TopicBookingReconciliation, subscriber, bookingHandler.ConsumeReconciliationQueue)
	if err != nil {
		logger.Ctx(ctx).Error(fmt.Sprintf("Failed to create reconciliation router: %v", err))
	}

	messageRouters = append(messageRouters, reconciliationRouter)

	serverHttp := http.SetupHttpEngine()

	r := router.Initialize(serverHttp, bookingHandler, m)

	return r, messageRouters, sched, bookingHandler
}
