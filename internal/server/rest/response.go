package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/MSSkowron/CareAuth/internal/dto"
	"github.com/MSSkowron/CareAuth/internal/service"
	"github.com/MSSkowron/CareAuth/pkg/logger"
	"github.com/MSSkowron/CareAuth/pkg/validation"
)

// Error titles and messages of the error envelope.
const (
	ErrValidation          = "Validation Error"
	ErrMalformedBody       = "Malformed Request Body"
	ErrUnsupportedMedia    = "Unsupported Media Type"
	ErrMethodNotAllowed    = "Method Not Allowed"
	ErrNotFound            = "Not Found"
	ErrAuthentication      = "Authentication Failed"
	ErrJWT                 = "JWT Error"
	ErrAccessDenied        = "Access Denied"
	ErrInvalidRequest      = "Invalid Request"
	ErrTooManyRequests     = "Too Many Requests"
	ErrPayloadTooLarge     = "Payload Too Large"
	ErrServer              = "Server Error"
	MsgValidation          = "Please check the input fields"
	MsgMalformedBody       = "The request body couldn't be read. Please ensure it's valid JSON format."
	MsgUnsupportedMedia    = "This endpoint only supports application/json content type. Please set the Content-Type header accordingly."
	MsgNotFound            = "The requested resource was not found."
	MsgInvalidCredentials  = "Invalid username or password"
	MsgInvalidToken        = "Invalid authentication token"
	MsgExpiredToken        = "Your session has expired. Please login again."
	MsgAccessDenied        = "You don't have permission to access this resource"
	MsgTooManyRequests     = "Too many requests. Please try again later."
	MsgPayloadTooLarge     = "The request body must not exceed 1 MiB."
	MsgInternalServerError = "An unexpected error occurred. Please try again later."
)

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.respondWithError(w, r, http.StatusNotFound, ErrNotFound, MsgNotFound, nil)
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("This endpoint doesn't support %s requests.", r.Method)
	if methods := s.allowedMethods(r.URL.Path); len(methods) > 0 {
		message += " Supported methods: " + strings.Join(methods, ", ")
	}
	s.respondWithError(w, r, http.StatusMethodNotAllowed, ErrMethodNotAllowed, message, nil)
}

// decodeJSON reads the request body into dst. It writes the error response and returns false on failure.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		s.respondWithError(w, r, http.StatusUnsupportedMediaType, ErrUnsupportedMedia, MsgUnsupportedMedia, nil)
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, ErrMalformedBody, MsgMalformedBody, nil)
		return false
	}
	return true
}

func (s *Server) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *validation.Error
		requestErr    *service.RequestError
		notFoundErr   *service.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		s.respondWithError(w, r, http.StatusBadRequest, ErrValidation, MsgValidation, validationErr.Fields)
	case errors.Is(err, service.ErrInvalidCredentials):
		s.respondWithError(w, r, http.StatusUnauthorized, ErrAuthentication, MsgInvalidCredentials, nil)
	case errors.Is(err, service.ErrExpiredToken):
		s.respondWithError(w, r, http.StatusUnauthorized, ErrJWT, MsgExpiredToken, nil)
	case errors.Is(err, service.ErrInvalidToken):
		s.respondWithError(w, r, http.StatusUnauthorized, ErrJWT, MsgInvalidToken, nil)
	case errors.Is(err, service.ErrForbidden):
		s.respondWithError(w, r, http.StatusForbidden, ErrAccessDenied, MsgAccessDenied, nil)
	case errors.As(err, &notFoundErr):
		s.respondWithError(w, r, http.StatusNotFound, ErrNotFound, notFoundErr.Message, nil)
	case errors.As(err, &requestErr):
		s.respondWithError(w, r, http.StatusBadRequest, ErrInvalidRequest, requestErr.Message, nil)
	default:
		logger.Error(fmt.Sprintf("Request [ID: %s] to [Endpoint: %s] failed: %s", requestID(r), r.URL.Path, err))
		s.respondWithError(w, r, http.StatusInternalServerError, ErrServer, MsgInternalServerError, nil)
	}
}

func requestErrorMessage(err error) (string, bool) {
	var requestErr *service.RequestError
	if errors.As(err, &requestErr) {
		return requestErr.Message, true
	}
	return "", false
}

func (s *Server) respondWithError(w http.ResponseWriter, r *http.Request, code int, title, message string, details map[string]string) {
	s.respondWithJSON(w, code, dto.ErrorResponse{
		Timestamp: time.Now(),
		Status:    code,
		Error:     title,
		Message:   message,
		Details:   details,
		Path:      r.URL.Path,
	})
}

func (s *Server) respondWithData(w http.ResponseWriter, code int, message string, data any) {
	s.respondWithJSON(w, code, dto.NewAPIResponse(code, message, data))
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to marshall response to JSON: %s ", err))

		w.WriteHeader(http.StatusInternalServerError)
		if _, err := w.Write([]byte(MsgInternalServerError)); err != nil {
			logger.Error(fmt.Sprintf("Failed to respond: %s", err))
		}

		return
	}

	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		logger.Error(fmt.Sprintf("Failed to respond: %s", err))
	}
}

// bearerToken extracts the token of a "Bearer <token>" Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}
