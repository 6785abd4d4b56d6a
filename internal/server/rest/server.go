package rest

import (
	"net/http"
	"net/netip"
	"regexp"
	"slices"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/MSSkowron/CareAuth/internal/metrics"
	"github.com/MSSkowron/CareAuth/internal/service"
)

type contextKey string

const (
	// DefaultPort is the default port the server listens on.
	DefaultPort = 8080
	// DefaultAddress is the default address the server listens on.
	DefaultAddress = ""
	// DefaultWriteTimeout is the default write timeout for server responses.
	DefaultWriteTimeout = 15 * time.Second
	// DefaultReadTimeout is the default read timeout for incoming requests.
	DefaultReadTimeout = 15 * time.Second
	// DefaultRateLimit is the default number of login and register requests per second allowed per client IP.
	DefaultRateLimit = 5
	// DefaultRateBurst is the default burst of login and register requests allowed per client IP.
	DefaultRateBurst = 10

	// ServiceName is reported by the API root.
	ServiceName = "Back-End Authentication & Profile API"

	contextKeyReqID = contextKey("reqID")
	contextKeyUser  = contextKey("user")
	contextKeyToken = contextKey("token")
)

// Services bundles the business services the server exposes.
type Services struct {
	Auth                service.AuthService
	Profile             service.ProfileService
	Data                service.DataService
	ConsultationHistory service.ConsultationHistoryService
}

// Server represents the HTTP API server.
type Server struct {
	*http.Server
	services       Services
	metrics        *metrics.Metrics
	router         *mux.Router
	limiter        *ipRateLimiter
	trustedProxies []netip.Prefix
	allowedOrigins []string
}

// NewServer creates a new Server instance.
func NewServer(services Services, m *metrics.Metrics, opts ...ServerOption) *Server {
	server := &Server{
		Server: &http.Server{
			Addr:         DefaultAddress,
			WriteTimeout: DefaultWriteTimeout,
			ReadTimeout:  DefaultReadTimeout,
		},
		services:       services,
		metrics:        m,
		limiter:        newIPRateLimiter(DefaultRateLimit, DefaultRateBurst),
		allowedOrigins: []string{"*"},
	}

	for _, opt := range opts {
		opt(server)
	}

	server.initRoutes()

	return server
}

// ServerOption is a function signature for providing options to configure the Server.
type ServerOption func(*Server)

// WithAddress is an option to set the server address.
func WithAddress(addr string) ServerOption {
	return func(s *Server) {
		s.Addr = addr
	}
}

// WithReadTimeout is an option to set the read timeout for the server.
func WithReadTimeout(timeout time.Duration) ServerOption {
	return func(s *Server) {
		s.ReadTimeout = timeout
	}
}

// WithWriteTimeout is an option to set the write timeout for the server.
func WithWriteTimeout(timeout time.Duration) ServerOption {
	return func(s *Server) {
		s.WriteTimeout = timeout
	}
}

// WithRateLimit is an option to set the per client IP rate limit of the login and register endpoints.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		limit := rate.Limit(rps)
		if rps <= 0 {
			limit = rate.Inf
		}
		s.limiter = newIPRateLimiter(limit, burst)
	}
}

// WithTrustedProxies is an option to set the reverse proxies whose X-Forwarded-For header identifies the client.
// Without it the client is always the connection's peer address.
func WithTrustedProxies(proxies []netip.Prefix) ServerOption {
	return func(s *Server) {
		s.trustedProxies = proxies
	}
}

// WithAllowedOrigins is an option to set the CORS allowed origins.
func WithAllowedOrigins(origins []string) ServerOption {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}

func (s *Server) initRoutes() {
	r := mux.NewRouter()

	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)

	r.Use(s.recoverMiddleware, s.logMiddleware, s.metricsMiddleware)

	r.HandleFunc("/api", s.handleRoot).Methods(http.MethodGet)

	r.Handle("/api/auth/register/pacilian", s.rateLimitMiddleware(http.HandlerFunc(s.handleRegisterPacilian))).Methods(http.MethodPost)
	r.Handle("/api/auth/register/caregiver", s.rateLimitMiddleware(http.HandlerFunc(s.handleRegisterCaregiver))).Methods(http.MethodPost)
	r.Handle("/api/auth/login", s.rateLimitMiddleware(http.HandlerFunc(s.handleLogin))).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/verify", s.handleVerify).Methods(http.MethodPost)

	r.HandleFunc("/api/data", s.handleGetAllCaregivers).Methods(http.MethodGet)
	r.HandleFunc("/api/data/search", s.handleSearchCaregivers).Methods(http.MethodGet)
	r.HandleFunc("/api/data/caregiver/{id}", s.handleGetCaregiver).Methods(http.MethodGet)
	r.HandleFunc("/api/data/caregiver/{id}/schedules", s.handleGetCaregiverSchedules).Methods(http.MethodGet)
	r.HandleFunc("/api/data/pacilian/{id}", s.handleGetPacilian).Methods(http.MethodGet)

	r.Handle("/api/profile", s.authMiddleware(http.HandlerFunc(s.handleGetProfile))).Methods(http.MethodGet)
	r.Handle("/api/profile", s.authMiddleware(http.HandlerFunc(s.handleUpdateProfile))).Methods(http.MethodPut)
	r.Handle("/api/profile", s.authMiddleware(http.HandlerFunc(s.handleDeleteAccount))).Methods(http.MethodDelete)
	r.Handle("/api/profile/change-password", s.authMiddleware(http.HandlerFunc(s.handleChangePassword))).Methods(http.MethodPost)
	r.Handle("/api/profile/schedules", s.authMiddleware(http.HandlerFunc(s.handleGetSchedules))).Methods(http.MethodGet)
	r.Handle("/api/profile/schedules", s.authMiddleware(http.HandlerFunc(s.handleUpdateSchedules))).Methods(http.MethodPut)

	r.Handle("/api/consultation-history", s.authMiddleware(http.HandlerFunc(s.handleGetConsultationHistory))).Methods(http.MethodGet)

	r.HandleFunc("/actuator/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/actuator/prometheus", s.metrics.Handler()).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	s.router = r
	s.Handler = c.Handler(r)
}

// allowedMethods lists the methods registered for path, in registration order.
func (s *Server) allowedMethods(path string) []string {
	var methods []string
	_ = s.router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pattern, err := route.GetPathRegexp()
		if err != nil {
			return nil
		}
		if ok, _ := regexp.MatchString(pattern, path); !ok {
			return nil
		}
		routeMethods, err := route.GetMethods()
		if err != nil {
			return nil
		}
		for _, m := range routeMethods {
			if !slices.Contains(methods, m) {
				methods = append(methods, m)
			}
		}
		return nil
	})
	return methods
}
