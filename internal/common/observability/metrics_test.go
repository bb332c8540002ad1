package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestObservability_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	obs := New("observability-test",
		WithRegisterer(promclient.NewRegistry()),
		WithSpanProcessor(recorder),
	)
	defer obs.Shutdown()

	_, ok := obs.StartSpan(context.Background(), "calculate-staff-score", attribute.Int64("jobKey", 42))
	EndSpan(ok, "")

	_, failed := obs.StartSpan(context.Background(), "recommend-staffing")
	EndSpan(failed, "REVENUE_OUT_OF_RANGE")

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "calculate-staff-score", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.Int64("jobKey", 42))

	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "REVENUE_OUT_OF_RANGE", spans[1].Status().Description)
}

func TestObservability_MetricsExportedToRegistry(t *testing.T) {
	reg := promclient.NewRegistry()
	obs := New("observability-test", WithRegisterer(reg))
	defer obs.Shutdown()

	ctx := context.Background()
	obs.RecordJobProcessed(ctx, "seed-revenue-bands", "completed")
	obs.RecordJobDuration(ctx, "seed-revenue-bands", 120*time.Millisecond, "completed")

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, names, "jobs_processed_total", joined)
	assert.Contains(t, names, "jobs_duration_milliseconds", joined)
}

func TestObservability_ZeroValueIsSafe(t *testing.T) {
	var obs Observability

	ctx, span := obs.StartSpan(context.Background(), "noop")
	assert.NotNil(t, ctx)
	EndSpan(span, "")
	obs.RecordJobProcessed(ctx, "noop", "completed")
	obs.Shutdown()
}
