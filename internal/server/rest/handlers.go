package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MSSkowron/CareAuth/internal/dto"
)

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.respondWithJSON(w, http.StatusOK, dto.HealthDTO{Status: "UP", Service: ServiceName})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondWithJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}

func (s *Server) handleRegisterPacilian(w http.ResponseWriter, r *http.Request) {
	req := &dto.RegisterPacilianDTO{}
	if !s.decodeJSON(w, r, req) {
		return
	}

	res, err := s.services.Auth.RegisterPacilian(r.Context(), req)
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	s.respondWithData(w, http.StatusCreated, "Pacilian registered successfully", res)
}

func (s *Server) handleRegisterCaregiver(w http.ResponseWriter, r *http.Request) {
	req := &dto.RegisterCaregiverDTO{}
	if !s.decodeJSON(w, r, req) {
		return
	}

	res, err := s.services.Auth.RegisterCaregiver(r.Context(), req)
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	s.respondWithData(w, http.StatusCreated, "Caregiver registered successfully", res)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req := &dto.LoginDTO{}
	if !s.decodeJSON(w, r, req) {
		return
	}

	res, err := s.services.Auth.Login(r.Context(), req)
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	s.respondWithData(w, http.StatusOK, "Login successful", res)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, _ := bearerToken(r)
	if err := s.services.Auth.Logout(r.Context(), token); err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	s.respondWithData(w, http.StatusOK, "Logged out successfully", nil)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		s.respondWithData(w, http.StatusUnauthorized, MsgInvalidToken, nil)
		return
	}

	res := s.services.Auth.VerifyToken(r.Context(), token)
	if !res.Valid {
		s.respondWithData(w, http.StatusUnauthorized, "Invalid or expired token", nil)
		return
	}

	s.respondWithData(w, http.StatusOK, "Token verified successfully", res)
}

func (s *Server) handleGetAllCaregivers(w http.ResponseWriter, r *http.Request) {
	res, err := s.services.Data.GetAllCaregivers(r.Context())
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	s.respondWithData(w, http.StatusOK, "Caregivers retrieved successfully", res)
}

func (s *Server) handleSearchCaregivers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	res, err := s.services.Data.SearchCaregivers(r.Context(), query.Get("name"), query.Get("speciality"))
	if err != nil {
		if msg, ok := requestErrorMessage(err); ok {
			s.respondWithData(w, http.StatusBadRequest, msg, nil)
			return
		}
		s.respondWithServiceError(w, r, err)
		return
	}

	s.respondWithData(w, http.StatusOK, "Caregivers search completed successfully", res)
}

func (s *Server) handleGetCaregiver(w http.ResponseWriter, r *http.Request) {
	res, err := s.services.Data.GetCaregiverByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	s.respondWithData(w, http.StatusOK, "Caregiver retrieved successfully", res)
}

func (s *Server) handleGetCaregiverSchedules(w http.ResponseWriter, r *http.Request) {
	res, err := s.services.Data.GetCaregiverSchedules(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	s.respondWithData(w, http.StatusOK, "Schedules retrieved successfully", res)
}

func (s *Server) handleGetPacilian(w http.ResponseWriter, r *http.Request) {
	res, err := s.services.Data.GetPacilianByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	s.respondWithData(w, http.StatusOK, "Pacilian retrieved successfully", res)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	res, err := s.services.Profile.GetProfile(r.Context(), userFromContext(r.Context()))
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	s.respondWithData(w, http.StatusOK, "Profile retrieved successfully", res)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	req := &dto.UpdateProfileDTO{}
	if !s.decodeJSON(w, r, req) {
		return
	}

	res, err := s.services.Profile.UpdateProfile(r.Context(), userFromContext(r.Context()), req)
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	s.respondWithData(w, http.StatusOK, "Profile updated successfully", res)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	token, _ := r.Context().Value(contextKeyToken).(string)
	if err := s.services.Profile.DeleteAccount(r.Context(), userFromContext(r.Context()), token); err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	s.respondWithData(w, http.StatusOK, "Account deleted successfully", nil)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	req := &dto.PasswordChangeDTO{}
	if !s.decodeJSON(w, r, req) {
		return
	}

	if err := s.services.Profile.ChangePassword(r.Context(), userFromContext(r.Context()), req); err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	s.respondWithData(w, http.StatusOK, "Password changed successfully", nil)
}

func (s *Server) handleGetSchedules(w http.ResponseWriter, r *http.Request) {
	res, err := s.services.Profile.GetSchedules(r.Context(), userFromContext(r.Context()))
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	s.respondWithData(w, http.StatusOK, "Schedules retrieved successfully", res)
}

func (s *Server) handleUpdateSchedules(w http.ResponseWriter, r *http.Request) {
	req := &dto.UpdateSchedulesDTO{}
	if !s.decodeJSON(w, r, req) {
		return
	}

	res, err := s.services.Profile.UpdateSchedules(r.Context(), userFromContext(r.Context()), req)
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	s.respondWithData(w, http.StatusOK, "Schedules updated successfully", res)
}

func (s *Server) handleGetConsultationHistory(w http.ResponseWriter, r *http.Request) {
	res, err := s.services.ConsultationHistory.GetConsultationHistory(r.Context(), userFromContext(r.Context()))
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	s.respondWithData(w, http.StatusOK, "Consultation history retrieved successfully", res)
}
