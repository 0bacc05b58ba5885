package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/coerce"
	"github.com/reoring/coerce/metrics"
)

func TestCollector_CountsValidations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.MustNew(reg)
	opts := coerce.Options{Observer: m, CollectErrors: true}

	s := coerce.Object(map[string]*coerce.Schema{
		"n": coerce.Number(),
		"s": coerce.String(),
	})
	_, err := s.Validate(map[string]any{"n": "1", "s": "x"}, opts)
	require.NoError(t, err)
	_, err = s.Validate(map[string]any{"n": "x"}, opts)
	require.Error(t, err)

	expected := `
# HELP coerce_validation_errors_total Recorded validation errors by error code.
# TYPE coerce_validation_errors_total counter
coerce_validation_errors_total{code="incorrect_type"} 1
coerce_validation_errors_total{code="missing"} 1
# HELP coerce_validations_total Top-level validations by schema kind and result.
# TYPE coerce_validations_total counter
coerce_validations_total{kind="Object",result="failure"} 1
coerce_validations_total{kind="Object",result="success"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"coerce_validations_total", "coerce_validation_errors_total"))

	n, err := testutil.GatherAndCount(reg, "coerce_validation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.New(reg)
	require.NoError(t, err)
	_, err = metrics.New(reg)
	assert.Error(t, err)
	assert.Panics(t, func() { metrics.MustNew(reg) })
}
