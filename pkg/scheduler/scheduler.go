package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Baro-rgb/CINEBOOK/pkg/logger"

	"github.com/hibiken/asynq"
)

// Scheduler wraps asynq for enqueueing and processing deferred tasks.
// Tasks are persisted in Redis, so pending work survives restarts.
type Scheduler struct {
	log *logger.Logger
}

// RedisConfig holds the Redis connection settings for the task queue
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func New(log *logger.Logger) *Scheduler {
	return &Scheduler{log: log}
}

func (s *Scheduler) redisOpt(cfg RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// InitClient creates an asynq client for enqueueing tasks
func (s *Scheduler) InitClient(cfg RedisConfig) *asynq.Client {
	return asynq.NewClient(s.redisOpt(cfg))
}

// EnqueueIn schedules a task for processing after the given delay
func (s *Scheduler) EnqueueIn(client *asynq.Client, taskType string, payload []byte, delay time.Duration) error {
	task := asynq.NewTask(taskType, payload)
	info, err := client.Enqueue(task, asynq.ProcessIn(delay), asynq.MaxRetry(5))
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}

	s.log.InfoWithContext(context.Background(), "Task Scheduled", map[string]interface{}{
		"task_id":    info.ID,
		"task_type":  taskType,
		"process_at": info.NextProcessAt,
	})
	return nil
}

// StartHandler runs the asynq worker server with the given task handlers.
// Blocks until the server is stopped, so call it from a goroutine.
func (s *Scheduler) StartHandler(cfg RedisConfig, handlers map[string]asynq.HandlerFunc) error {
	srv := asynq.NewServer(
		s.redisOpt(cfg),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 10,
			},
		},
	)

	mux := asynq.NewServeMux()
	for taskType, handlerFunc := range handlers {
		mux.HandleFunc(taskType, handlerFunc)
	}

	if err := srv.Run(mux); err != nil {
		return fmt.Errorf("task server: %w", err)
	}
	return nil
}
