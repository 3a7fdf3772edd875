package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Baro-rgb/CINEBOOK/pkg/logger"
	"github.com/Baro-rgb/CINEBOOK/pkg/scheduler"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TypeSettlementCheck is the task enqueued at reservation time and processed
// once the hold duration elapses.
const TypeSettlementCheck = "settlement:check"

type SettlementCheckPayload struct {
	BookingID string `json:"booking_id"`
}

// TaskScheduler implements bookings.SettlementScheduler on top of asynq
type TaskScheduler struct {
	client *asynq.Client
	sched  *scheduler.Scheduler
}

func NewTaskScheduler(client *asynq.Client, sched *scheduler.Scheduler) *TaskScheduler {
	return &TaskScheduler{
		client: client,
		sched:  sched,
	}
}

func (s *TaskScheduler) ScheduleSettlementCheck(bookingID uuid.UUID, delay time.Duration) error {
	payload, err := json.Marshal(SettlementCheckPayload{BookingID: bookingID.String()})
	if err != nil {
		return fmt.Errorf("failed to marshal settlement payload: %w", err)
	}
	return s.sched.EnqueueIn(s.client, TypeSettlementCheck, payload, delay)
}

// TaskHandler processes settlement-check tasks from the queue
type TaskHandler struct {
	service Service
	log     *logger.Logger
}

func NewTaskHandler(service Service, log *logger.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		log:     log,
	}
}

func (h *TaskHandler) HandleSettlementCheck(ctx context.Context, t *asynq.Task) error {
	var payload SettlementCheckPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.log.WithError(err).ErrorContext(ctx, "malformed settlement task payload")
		// Retrying a malformed payload cannot succeed
		return fmt.Errorf("unmarshal settlement payload: %v: %w", err, asynq.SkipRetry)
	}

	bookingID, err := uuid.Parse(payload.BookingID)
	if err != nil {
		h.log.WithError(err).ErrorContext(ctx, "invalid booking id in settlement task")
		return fmt.Errorf("parse booking id: %v: %w", err, asynq.SkipRetry)
	}

	return h.service.HandleTimeout(ctx, bookingID)
}
