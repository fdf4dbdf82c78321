package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(bookingCreated.WithLabelValues("pending"))
	IncBookingCreated("pending")
	assert.Equal(t, before+1, testutil.ToFloat64(bookingCreated.WithLabelValues("pending")))

	before = testutil.ToFloat64(bookingTransition.WithLabelValues("pending", "confirmed"))
	IncBookingTransition("pending", "confirmed")
	assert.Equal(t, before+1, testutil.ToFloat64(bookingTransition.WithLabelValues("pending", "confirmed")))

	before = testutil.ToFloat64(bookingConflict.WithLabelValues("create"))
	IncBookingConflict("create")
	assert.Equal(t, before+1, testutil.ToFloat64(bookingConflict.WithLabelValues("create")))

	before = testutil.ToFloat64(eventsConsumed.WithLabelValues("booking.created", "error"))
	IncEventConsumed("booking.created", false)
	assert.Equal(t, before+1, testutil.ToFloat64(eventsConsumed.WithLabelValues("booking.created", "error")))

	before = testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodPost, "409"))
	ObserveHTTPRequest(http.MethodPost, http.StatusConflict, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodPost, "409")))
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	Register()
	Register()

	IncBookingRescheduled()
	ObserveLockWait("redis", true, 5*time.Millisecond)
	ObserveHTTPRequest(http.MethodGet, http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "deskly_booking_rescheduled_total")
	assert.Contains(t, body, "deskly_workspace_lock_wait_seconds")
	assert.Contains(t, body, "deskly_http_requests_total")
}
