package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apigate/pkg/metrics"
	"github.com/dmitrymomot/apigate/pkg/validator"
)

func TestRecordValidation(t *testing.T) {
	t.Parallel()
	m := metrics.New()

	m.RecordValidation("register", validator.Result{Valid: true}, nil, time.Millisecond)
	m.RecordValidation("register", validator.Result{Errors: validator.ValidationErrors{
		{Rule: "email", Field: "email"},
		{Rule: "min", Field: "age"},
		{Rule: "email", Field: "backup"},
	}}, nil, time.Millisecond)
	m.RecordValidation("register", validator.Result{}, errors.New("boom"), time.Millisecond)

	n, err := testutil.GatherAndCount(m.Registry(), "apigate_validation_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	n, err = testutil.GatherAndCount(m.Registry(), "apigate_validation_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	var emailErrors float64
	for _, f := range families {
		if f.GetName() != "apigate_validation_errors_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			if metric.GetLabel()[0].GetValue() == "email" {
				emailErrors = metric.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, emailErrors)
}

func TestHandler(t *testing.T) {
	t.Parallel()
	m := metrics.New()
	m.RecordRequest(http.MethodPost, "/validate/{schema}", http.StatusUnprocessableEntity, 2*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `apigate_http_requests_total{method="POST",route="/validate/{schema}",status="422"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
