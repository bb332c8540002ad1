package camunda

import (
	"context"
	"time"

	"venue-workers/internal/common/config"
	"venue-workers/internal/common/logger"
	"venue-workers/internal/common/metrics"
	"venue-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
)

// JobHandler completes, fails or throws on every job it is given. ctx carries
// the job's span.
type JobHandler interface {
	Handle(ctx context.Context, client worker.JobClient, job entities.Job)
}

const (
	outcomeCompleted = "completed"
	outcomeFailed    = "failed"
	outcomeThrown    = "error_thrown"
	outcomeNone      = "unanswered"
)

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for taskType using the per-worker settings.
func NewWorker(
	client zbc.Client,
	taskType string,
	wcfg config.WorkerConfig,
	handler JobHandler,
	obs *observability.Observability,
	log logger.Logger,
) *CamundaWorker {
	log = log.WithFields(map[string]interface{}{"taskType": taskType})

	step := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, obs, log)).
		MaxJobsActive(wcfg.MaxJobsActive)
	if wcfg.Timeout > 0 {
		step = step.Timeout(config.GetDuration(wcfg.Timeout))
	}

	w := &CamundaWorker{
		worker:   step.Open(),
		logger:   log,
		taskType: taskType,
	}
	log.Info("worker started", map[string]interface{}{
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})
	return w
}

func (w *CamundaWorker) TaskType() string {
	return w.taskType
}

// Stop closes the job worker and waits for in-flight jobs.
func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}

// Instrument wraps handler with an active-job gauge, a span and otel job
// metrics. The outcome is read from whichever command the handler sends.
func Instrument(taskType string, handler JobHandler, obs *observability.Observability, log logger.Logger) worker.JobHandler {
	if obs == nil {
		obs = &observability.Observability{}
	}

	return func(client worker.JobClient, job entities.Job) {
		started := time.Now()
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer active.Dec()

		ctx, span := obs.StartSpan(context.Background(), taskType,
			attribute.Int64("jobKey", job.Key),
			attribute.Int64("processInstanceKey", job.ProcessInstanceKey),
		)

		tracked := &trackingClient{JobClient: client, outcome: outcomeNone}
		handler.Handle(ctx, tracked, job)

		failure := ""
		if tracked.outcome != outcomeCompleted {
			failure = tracked.outcome
		}
		observability.EndSpan(span, failure)
		obs.RecordJobProcessed(ctx, taskType, tracked.outcome)
		obs.RecordJobDuration(ctx, taskType, time.Since(started), tracked.outcome)

		if tracked.outcome == outcomeNone {
			log.Warn("handler returned without answering job", map[string]interface{}{"jobKey": job.Key})
		}
	}
}

// trackingClient remembers the last command type the handler asked for.
type trackingClient struct {
	worker.JobClient
	outcome string
}

func (c *trackingClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.outcome = outcomeCompleted
	return c.JobClient.NewCompleteJobCommand()
}

func (c *trackingClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.outcome = outcomeFailed
	return c.JobClient.NewFailJobCommand()
}

func (c *trackingClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.outcome = outcomeThrown
	return c.JobClient.NewThrowErrorCommand()
}
