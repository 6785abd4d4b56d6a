package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCountersAreIndependentPerInstance(t *testing.T) {
	first, second := New(), New()

	first.LoginSuccess.Inc()
	first.LoginSuccess.Inc()

	require.Equal(t, 2.0, testutil.ToFloat64(first.LoginSuccess))
	require.Equal(t, 0.0, testutil.ToFloat64(second.LoginSuccess))
}

func TestObserveHTTP(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodPost, "/api/auth/login", http.StatusOK, 20*time.Millisecond)
	m.ObserveHTTP(http.MethodPost, "/api/auth/login", http.StatusUnauthorized, 5*time.Millisecond)

	require.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodPost, "/api/auth/login", "401")))
	require.Equal(t, 2, testutil.CollectAndCount(m.HTTPRequests))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.RegisterPacilian.Inc()
	Since(m.TokenVerification, time.Now())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/actuator/prometheus", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "careauth_auth_register_pacilian_total 1")
	require.Contains(t, string(body), "careauth_auth_token_verification_seconds_count 1")
	require.Contains(t, string(body), "go_goroutines")
}
