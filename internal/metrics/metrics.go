// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "careauth"

// Metrics holds every collector on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	LoginSuccess             prometheus.Counter
	LoginFailure             prometheus.Counter
	RegisterPacilian         prometheus.Counter
	RegisterPacilianFailure  prometheus.Counter
	RegisterCaregiver        prometheus.Counter
	RegisterCaregiverFailure prometheus.Counter
	TokenVerification        prometheus.Histogram

	ProfileView           prometheus.Counter
	ProfileUpdateSuccess  prometheus.Counter
	ProfileUpdateFailure  prometheus.Counter
	PasswordChangeSuccess prometheus.Counter
	PasswordChangeFailure prometheus.Counter
	ProfileUpdateDuration prometheus.Histogram

	DataRequest           prometheus.Counter
	DataCaregiverSearch   prometheus.Counter
	DataCaregiverView     prometheus.Counter
	DataPacilianView      prometheus.Counter
	DataQueryDuration     prometheus.Histogram
	DataRequestFailure    prometheus.Counter
	DataCaregiverNotFound prometheus.Counter
	DataPacilianNotFound  prometheus.Counter

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates and registers all collectors, including the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	counter := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
		reg.MustRegister(c)
		return c
	}
	histogram := func(name, help string) prometheus.Histogram {
		h := prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: name, Help: help, Buckets: prometheus.DefBuckets})
		reg.MustRegister(h)
		return h
	}

	m := &Metrics{
		registry: reg,

		LoginSuccess:             counter("auth_login_success_total", "Number of successful logins"),
		LoginFailure:             counter("auth_login_failure_total", "Number of failed logins"),
		RegisterPacilian:         counter("auth_register_pacilian_total", "Number of pacilian registrations"),
		RegisterPacilianFailure:  counter("auth_register_pacilian_failure_total", "Number of failed pacilian registrations"),
		RegisterCaregiver:        counter("auth_register_caregiver_total", "Number of caregiver registrations"),
		RegisterCaregiverFailure: counter("auth_register_caregiver_failure_total", "Number of failed caregiver registrations"),
		TokenVerification:        histogram("auth_token_verification_seconds", "Time taken to verify tokens"),

		ProfileView:           counter("profile_view_total", "Number of profile views"),
		ProfileUpdateSuccess:  counter("profile_update_success_total", "Number of successful profile updates"),
		ProfileUpdateFailure:  counter("profile_update_failure_total", "Number of failed profile updates"),
		PasswordChangeSuccess: counter("profile_password_change_success_total", "Number of successful password changes"),
		PasswordChangeFailure: counter("profile_password_change_failure_total", "Number of failed password changes"),
		ProfileUpdateDuration: histogram("profile_update_duration_seconds", "Time taken to update profiles"),

		DataRequest:           counter("data_request_total", "Number of data requests"),
		DataCaregiverSearch:   counter("data_caregiver_search_total", "Number of caregiver searches"),
		DataCaregiverView:     counter("data_caregiver_view_total", "Number of caregiver views"),
		DataPacilianView:      counter("data_pacilian_view_total", "Number of pacilian views"),
		DataQueryDuration:     histogram("data_query_duration_seconds", "Time taken by data queries"),
		DataRequestFailure:    counter("data_request_failure_total", "Number of failed data requests"),
		DataCaregiverNotFound: counter("data_caregiver_not_found_total", "Number of caregiver lookups that found nothing"),
		DataPacilianNotFound:  counter("data_pacilian_not_found_total", "Number of pacilian lookups that found nothing"),

		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total", Help: "Number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency", Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.HTTPRequests,
		m.HTTPRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Since observes the time elapsed from start on h.
func Since(h prometheus.Observer, start time.Time) {
	h.Observe(time.Since(start).Seconds())
}
