package recommendstaffing

import (
	"context"
	stderrors "errors"
	"time"

	"venue-workers/internal/common/errors"
	"venue-workers/internal/common/logger"
	"venue-workers/internal/common/metrics"
	"venue-workers/internal/common/validation"
	"venue-workers/internal/staffing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/shopspring/decimal"
)

const (
	TaskType = "recommend-staffing"
)

// BandLoader returns a venue's band table, or the defaults when it has none.
type BandLoader interface {
	LoadOrDefault(ctx context.Context, venueID string) ([]staffing.RevenueBand, bool, error)
}

type Handler struct {
	config     *Config
	bands      BandLoader
	validator  *validation.Validator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, bands BandLoader, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		bands:      bands,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	bands, usedDefault, err := h.bands.LoadOrDefault(ctx, input.VenueID)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.NewQueryTimeoutError("load revenue bands")
		}
		return nil, errors.NewQueryExecutionFailedError("load revenue bands", err)
	}

	if err := staffing.ValidateBands(bands); err != nil {
		return nil, errors.NewInvalidBandConfigError(err)
	}

	band, err := staffing.BandForRevenue(bands, input.Revenue)
	if err != nil {
		if stderrors.Is(err, staffing.ErrRevenueOutOfRange) {
			return nil, errors.NewRevenueOutOfRangeError(err)
		}
		return nil, errors.NewInvalidBandConfigError(err)
	}

	source := "venue"
	if usedDefault {
		source = "default"
	}
	metrics.StaffingRecommendations.WithLabelValues(band.Name, source).Inc()

	output := &Output{
		Band:             band,
		RevenueRange:     band.RangeLabel(),
		StaffSummary:     band.Summary(),
		LabourBudget:     labourBudget(input.Revenue, band.TargetCostPercentage),
		UsedDefaultBands: usedDefault,
	}

	h.logger.Info("staffing recommended", map[string]interface{}{
		"venueId":     input.VenueID,
		"revenue":     input.Revenue,
		"band":        band.Name,
		"usedDefault": usedDefault,
	})
	return output, nil
}

// labourBudget is revenue * target% rounded half-up to pence.
func labourBudget(revenue, targetPercentage float64) float64 {
	v, _ := decimal.NewFromFloat(revenue).
		Mul(decimal.NewFromFloat(targetPercentage)).
		Div(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return v
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
