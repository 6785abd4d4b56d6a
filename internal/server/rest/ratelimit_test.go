package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MSSkowron/CareAuth/internal/service"
)

func TestIPRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newIPRateLimiter(1, 1)
	l.now = func() time.Time { return now }
	l.lastCleanup = now

	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"))

	now = now.Add(time.Second)
	assert.True(t, l.allow("10.0.0.1"))

	now = now.Add(visitorTTL + cleanupInterval)
	l.allow("10.0.0.3")
	assert.Len(t, l.visitors, 1)
}

func TestParseTrustedProxies(t *testing.T) {
	prefixes, err := ParseTrustedProxies([]string{"10.1.0.0/16", " 192.0.2.7 ", "", "::1"})
	require.NoError(t, err)
	require.Len(t, prefixes, 3)
	assert.Equal(t, "10.1.0.0/16", prefixes[0].String())
	assert.Equal(t, "192.0.2.7/32", prefixes[1].String())
	assert.Equal(t, "::1/128", prefixes[2].String())

	_, err = ParseTrustedProxies([]string{"proxy.local"})
	assert.Error(t, err)

	_, err = ParseTrustedProxies([]string{"10.0.0.0/33"})
	assert.Error(t, err)
}

func TestClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"192.0.2.0/24", "10.9.0.0/16"})
	require.NoError(t, err)

	data := []struct {
		name       string
		trusted    bool
		remoteAddr string
		forwarded  string
		want       string
	}{
		{name: "no proxies configured", remoteAddr: "[::1]:5000", forwarded: "10.0.0.1", want: "::1"},
		{name: "untrusted peer ignores header", trusted: true, remoteAddr: "203.0.113.5:443", forwarded: "10.0.0.1", want: "203.0.113.5"},
		{name: "trusted peer without header", trusted: true, remoteAddr: "192.0.2.1:443", want: "192.0.2.1"},
		{name: "trusted peer uses last hop", trusted: true, remoteAddr: "192.0.2.1:443", forwarded: "10.0.0.1, 198.51.100.4", want: "198.51.100.4"},
		{name: "trusted hops are skipped", trusted: true, remoteAddr: "192.0.2.1:443", forwarded: "198.51.100.4, 10.9.3.3", want: "198.51.100.4"},
		{name: "spoofed left hops are ignored", trusted: true, remoteAddr: "192.0.2.1:443", forwarded: "1.1.1.1, 2.2.2.2, 198.51.100.4", want: "198.51.100.4"},
		{name: "all hops trusted", trusted: true, remoteAddr: "192.0.2.1:443", forwarded: "10.9.0.1", want: "192.0.2.1"},
	}

	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			s := &Server{}
			if d.trusted {
				s.trustedProxies = trusted
			}

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = d.remoteAddr
			if d.forwarded != "" {
				req.Header.Set("X-Forwarded-For", d.forwarded)
			}

			assert.Equal(t, d.want, s.clientIP(req))
		})
	}
}

func TestLoginRateLimitedBehindTrustedProxy(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"192.0.2.0/24"})
	require.NoError(t, err)

	s, m := newTestServer(t, WithRateLimit(0.001, 1), WithTrustedProxies(trusted))
	m.auth.On("Login", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidCredentials).Times(2)

	login := func(forwarded string) int {
		return do(t, s, http.MethodPost, "/api/auth/login", `{"email":"a@b.co","password":"x"}`,
			map[string]string{"X-Forwarded-For": forwarded}).Code
	}

	assert.Equal(t, http.StatusUnauthorized, login("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, login("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, login("203.0.113.9, 198.51.100.1"))
	assert.Equal(t, http.StatusUnauthorized, login("198.51.100.2"))
}
