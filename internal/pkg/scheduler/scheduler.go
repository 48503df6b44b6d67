package scheduler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	"github.com/ChickenSoup269/Zero-Movie-sub001/config"
)

const (
	TypeHoldExpired = "booking:hold_expired"
	TypeSweepHolds  = "booking:sweep_holds"
)

type Scheduler struct {
	Log *otelzap.Logger
}

func redisConnOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func (s *Scheduler) StartMonitoring(cfg *config.RedisConfig) {
	h := asynqmon.New(asynqmon.Options{
		RootPath:     "/monitoring",
		RedisConnOpt: redisConnOpt(cfg),
	})

	// Note: We need the tailing slash when using net/http.ServeMux.
	http.Handle(h.RootPath()+"/", h)

	if err := http.ListenAndServe(":8080", nil); err != nil {
		s.Log.Ctx(context.Background()).Error(fmt.Sprintf("error start monitoring scheduler: %v", err))
	}
}

func (s *Scheduler) InitClient(cfg *config.RedisConfig) *asynq.Client {
	return asynq.NewClient(redisConnOpt(cfg))
}

func (s *Scheduler) StartHandler(cfg *config.RedisConfig, taskTypes []string, handlerFunc []func(ctx context.Context, t *asynq.Task) error) {
	srv := asynq.NewServer(
		redisConnOpt(cfg),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 10,
			},
		},
	)
	mux := asynq.NewServeMux()

	for i, taskType := range taskTypes {
		mux.HandleFunc(taskType, handlerFunc[i])
	}

	if err := srv.Run(mux); err != nil {
		s.Log.Ctx(context.Background()).Error(fmt.Sprintf("error start handler scheduler: %v", err))
	}
}

// StartPeriodic registers the hold sweep on a fixed interval. The sweep is the
// safety net behind the per-booking delayed expiry tasks.
func (s *Scheduler) StartPeriodic(cfg *config.RedisConfig, interval string) {
	scheduler := asynq.NewScheduler(redisConnOpt(cfg), nil)

	if _, err := scheduler.Register(fmt.Sprintf("@every %s", interval), asynq.NewTask(TypeSweepHolds, nil)); err != nil {
		s.Log.Ctx(context.Background()).Error(fmt.Sprintf("error register sweep task: %v", err))
		return
	}

	if err := scheduler.Run(); err != nil {
		s.Log.Ctx(context.Background()).Error(fmt.Sprintf("error start periodic scheduler: %v", err))
	}
}
