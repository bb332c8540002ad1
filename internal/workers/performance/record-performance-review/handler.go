package recordperformancereview

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"venue-workers/internal/common/errors"
	"venue-workers/internal/common/logger"
	"venue-workers/internal/common/metrics"
	"venue-workers/internal/common/validation"
	"venue-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TaskType = "record-performance-review"
)

type ReviewStore interface {
	Insert(ctx context.Context, review *scoring.Review) error
	ListForStaff(ctx context.Context, venueID, staffID string, limit int) ([]scoring.Review, error)
}

type Handler struct {
	config     *Config
	reviews    ReviewStore
	validator  *validation.Validator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	newID      func() string
	now        func() time.Time
}

func NewHandler(config *Config, reviews ReviewStore, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		reviews:    reviews,
		validator:  validator,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
		newID:      uuid.NewString,
		now:        time.Now,
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
	staffID := strings.TrimSpace(input.StaffID)

	role, err := scoring.ParseRole(input.Role)
	if err != nil {
		return nil, errors.NewInvalidRoleError(err)
	}

	review, err := scoring.NewReview(h.newID(), venueID, staffID, role, input.Scores, h.config.MaxScore, h.now())
	if err != nil {
		return nil, mapReviewError(err)
	}
	review.ReviewerID = input.ReviewerID
	review.Notes = input.Notes

	if err := h.reviews.Insert(ctx, review); err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.NewQueryTimeoutError("insert performance review")
		}
		return nil, errors.NewDatabaseInsertFailedError(err)
	}
	metrics.StaffScores.WithLabelValues(string(role)).Observe(review.WeightedScore)

	// the review is already stored; a failed history read must not fail the job
	history, err := h.reviews.ListForStaff(ctx, venueID, staffID, h.config.HistoryLimit)
	if err != nil {
		h.logger.Warn("failed to load review history", map[string]interface{}{
			"venueId": venueID,
			"staffId": staffID,
			"error":   err,
		})
		history = nil
	}

	output := summarize(review, history, h.config.HistoryLimit)

	h.logger.Info("performance review recorded", map[string]interface{}{
		"reviewId":      review.ID,
		"venueId":       venueID,
		"staffId":       staffID,
		"role":          string(role),
		"weightedScore": review.WeightedScore,
		"trend":         output.Trend,
	})
	return output, nil
}

// summarize compares the new review against the staff member's recent
// reviews for the same role. history is newest first and may or may not
// include review. At most limit reviews are counted when limit > 0.
func summarize(review *scoring.Review, history []scoring.Review, limit int) *Output {
	scores := []float64{review.WeightedScore}
	var previous *float64
	for _, r := range history {
		if limit > 0 && len(scores) >= limit {
			break
		}
		if r.ID == review.ID || r.Role != review.Role {
			continue
		}
		if previous == nil {
			p := r.WeightedScore
			previous = &p
		}
		scores = append(scores, r.WeightedScore)
	}

	trend := TrendFirst
	if previous != nil {
		switch {
		case review.WeightedScore > *previous:
			trend = TrendImproving
		case review.WeightedScore < *previous:
			trend = TrendDeclining
		default:
			trend = TrendSteady
		}
	}

	return &Output{
		ReviewID:      review.ID,
		WeightedScore: review.WeightedScore,
		CreatedAt:     review.CreatedAt.Format(time.RFC3339),
		ReviewCount:   len(scores),
		AverageScore:  average(scores),
		PreviousScore: previous,
		Trend:         trend,
	}
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	avg, _ := sum.Div(decimal.NewFromInt(int64(len(values)))).Round(2).Float64()
	return avg
}

func mapReviewError(err error) error {
	switch {
	case stderrors.Is(err, scoring.ErrUnknownRole):
		return errors.NewInvalidRoleError(err)
	case stderrors.Is(err, scoring.ErrInvalidScores):
		return errors.NewInvalidScoresError(err)
	case stderrors.Is(err, scoring.ErrMissingWeight):
		return errors.NewMissingWeightError(err)
	case stderrors.Is(err, scoring.ErrZeroTotalWeight),
		stderrors.Is(err, scoring.ErrNegativeWeight),
		stderrors.Is(err, scoring.ErrNonFiniteValue):
		return errors.NewInvalidWeightsError(err)
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
