package calculatestaffscore

import (
	"context"
	stderrors "errors"
	"time"

	"venue-workers/internal/common/errors"
	"venue-workers/internal/common/logger"
	"venue-workers/internal/common/metrics"
	"venue-workers/internal/common/validation"
	"venue-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "calculate-staff-score"
)

type Handler struct {
	config     *Config
	validator  *validation.Validator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		validator:  validator,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
	}
}

func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) {
	started := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := validation.DecodeVariables(h.validator, TaskType, job.Variables, &input); err != nil {
		h.failJob(ctx, client, job, started, err)
		return
	}

	execCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	output, err := h.execute(execCtx, &input)
	if err != nil {
		h.failJob(ctx, client, job, started, err)
		return
	}

	h.completeJob(ctx, client, job, started, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	role, err := scoring.ParseRole(input.Role)
	if err != nil {
		return nil, errors.NewInvalidRoleError(err)
	}

	if err := scoring.ValidateScores(role, input.Scores, 0, h.config.MaxScore); err != nil {
		return nil, errors.NewInvalidScoresError(err)
	}

	weights := input.Weights
	custom := len(weights) > 0
	if !custom {
		weights = scoring.WeightsFor(role)
	}

	score, err := scoring.CalculateWeightedScore(input.Scores, weights)
	if err != nil {
		return nil, MapScoringError(err)
	}

	metrics.StaffScores.WithLabelValues(string(role)).Observe(score)

	var unscored []string
	for _, category := range scoring.Categories(role) {
		if _, ok := input.Scores[category]; !ok {
			unscored = append(unscored, category)
		}
	}

	h.logger.Info("staff score calculated", map[string]interface{}{
		"role":          string(role),
		"weightedScore": score,
		"customWeights": custom,
		"unscored":      len(unscored),
	})

	return &Output{
		Role:               string(role),
		WeightedScore:      score,
		UnscoredCategories: unscored,
		UsedCustomWeights:  custom,
	}, nil
}

// MapScoringError converts scoring package errors into job error codes.
func MapScoringError(err error) error {
	switch {
	case stderrors.Is(err, scoring.ErrUnknownRole):
		return errors.NewInvalidRoleError(err)
	case stderrors.Is(err, scoring.ErrMissingWeight):
		return errors.NewMissingWeightError(err)
	case stderrors.Is(err, scoring.ErrZeroTotalWeight),
		stderrors.Is(err, scoring.ErrNegativeWeight),
		stderrors.Is(err, scoring.ErrNonFiniteValue):
		return errors.NewInvalidWeightsError(err)
	case stderrors.Is(err, scoring.ErrInvalidScores):
		return errors.NewInvalidScoresError(err)
	}
	return errors.NewInternalError(err)
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, started time.Time, output *Output) {
	metrics.ObserveJob(TaskType, started, "")

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, started time.Time, err error) {
	stdErr := errors.Normalize(err)
	metrics.ObserveJob(TaskType, started, string(stdErr.Code))
	h.errHandler.HandleJobError(ctx, client, job, stdErr)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
