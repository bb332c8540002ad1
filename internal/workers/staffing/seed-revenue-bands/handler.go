package seedrevenuebands

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"venue-workers/internal/common/errors"
	"venue-workers/internal/common/logger"
	"venue-workers/internal/common/metrics"
	"venue-workers/internal/common/validation"
	"venue-workers/internal/staffing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "seed-revenue-bands"
)

type BandReplacer interface {
	Replace(ctx context.Context, venueID string, bands []staffing.RevenueBand) error
}

type Handler struct {
	config     *Config
	bands      BandReplacer
	validator  *validation.Validator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, bands BandReplacer, validator *validation.Validator, log logger.Logger) *Handler {
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
	if err := input.Validate(); err != nil {
		return nil, errors.NewInputValidationError(strings.Join(validation.FieldErrors(err), "; "))
	}
	venueID := strings.TrimSpace(input.VenueID)

	bands := input.Bands
	usedDefault := len(bands) == 0
	if usedDefault {
		bands = staffing.DefaultRevenueBands()
	}

	if err := h.bands.Replace(ctx, venueID, bands); err != nil {
		return nil, mapReplaceError(err)
	}

	names := make([]string, 0, len(bands))
	for _, b := range bands {
		names = append(names, b.Name)
	}

	h.logger.Info("revenue bands seeded", map[string]interface{}{
		"venueId":     venueID,
		"bandCount":   len(bands),
		"usedDefault": usedDefault,
	})

	return &Output{
		VenueID:          venueID,
		BandCount:        len(bands),
		BandNames:        names,
		CoveredRange:     staffing.FormatRevenueBand(bands[0].RevenueMin, bands[len(bands)-1].RevenueMax),
		UsedDefaultBands: usedDefault,
	}, nil
}

func mapReplaceError(err error) error {
	switch {
	case stderrors.Is(err, staffing.ErrInvalidBand),
		stderrors.Is(err, staffing.ErrBandsNotContiguous),
		stderrors.Is(err, staffing.ErrNoBands):
		return errors.NewInvalidBandConfigError(err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewQueryTimeoutError("replace revenue bands")
	default:
		return errors.NewDatabaseInsertFailedError(fmt.Errorf("replace revenue bands: %w", err))
	}
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
