package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/MSSkowron/CareAuth/internal/model"
	"github.com/MSSkowron/CareAuth/pkg/logger"
)

const (
	// MaxBodyBytes bounds every request body.
	MaxBodyBytes  = 1 << 20
	maxLoggedBody = 1 << 10
)

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()

		clientIP := s.clientIP(r)
		endpoint := r.URL.Path
		httpMethod := r.Method

		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
		}

		requestBody, err := getRequestBody(r)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				s.respondWithError(w, r, http.StatusRequestEntityTooLarge, ErrPayloadTooLarge, MsgPayloadTooLarge, nil)
				return
			}
			s.respondWithError(w, r, http.StatusBadRequest, ErrMalformedBody, MsgMalformedBody, nil)
			return
		}

		logMessage := fmt.Sprintf(
			"Received request [ID: %s] from [ClientIP: %s] to [Endpoint: %s] with [HTTP Method: %s] and [Request Body: %s]",
			requestID, clientIP, endpoint, httpMethod, requestBody,
		)
		logger.Info(logMessage)

		w.Header().Set("X-Request-ID", requestID)
		r = r.WithContext(context.WithValue(r.Context(), contextKeyReqID, requestID))

		next.ServeHTTP(w, r)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error(fmt.Sprintf("Recovered from panic while serving [Endpoint: %s]: %v", r.URL.Path, rec))
				s.respondWithError(w, r, http.StatusInternalServerError, ErrServer, MsgInternalServerError, nil)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.metrics.ObserveHTTP(r.Method, route, rec.status, time.Since(start))
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(s.clientIP(r)) {
			s.respondWithError(w, r, http.StatusTooManyRequests, ErrTooManyRequests, MsgTooManyRequests, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			s.respondWithError(w, r, http.StatusUnauthorized, ErrJWT, MsgInvalidToken, nil)
			return
		}

		user, _, err := s.services.Auth.Authenticate(r.Context(), token)
		if err != nil {
			s.respondWithServiceError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUser, user)
		ctx = context.WithValue(ctx, contextKeyToken, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(contextKeyUser).(*model.User)
	return user
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(contextKeyReqID).(string)
	return id
}

// ParseTrustedProxies parses IP addresses and CIDR ranges of reverse proxies whose X-Forwarded-For is believed.
func ParseTrustedProxies(values []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, "/") {
			prefix, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func (s *Server) isTrustedProxy(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range s.trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// clientIP is the peer address, unless the peer is a trusted proxy. Then it is the
// right-most X-Forwarded-For hop that is not a trusted proxy.
func (s *Server) clientIP(r *http.Request) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}
	if !s.isTrustedProxy(remote) {
		return remote
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop != "" && !s.isTrustedProxy(hop) {
			return hop
		}
	}
	return remote
}

// getRequestBody returns the body for logging with password fields masked, and restores r.Body.
func getRequestBody(r *http.Request) (string, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return "", nil
	}

	requestBodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}

	r.Body = io.NopCloser(bytes.NewBuffer(requestBodyBytes))

	if len(requestBodyBytes) == 0 {
		return "", nil
	}

	var requestBody any
	if err := json.Unmarshal(requestBodyBytes, &requestBody); err != nil {
		if len(requestBodyBytes) > maxLoggedBody {
			return string(requestBodyBytes[:maxLoggedBody]) + "...", nil
		}
		return string(requestBodyBytes), nil
	}

	requestBodyJSON, err := json.Marshal(maskPasswords(requestBody))
	if err != nil {
		return "", err
	}

	return string(requestBodyJSON), nil
}

func maskPasswords(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if strings.Contains(strings.ToLower(k), "password") {
				t[k] = "********"
				continue
			}
			t[k] = maskPasswords(val)
		}
	case []any:
		for i, val := range t {
			t[i] = maskPasswords(val)
		}
	}
	return v
}
