package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/verduraria/backend/api/middleware"
	"github.com/verduraria/backend/api/responses"
	"github.com/verduraria/backend/api/validators"
	authsvc "github.com/verduraria/backend/internal/auth"
	"github.com/verduraria/backend/pkg/db/models"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
	"github.com/verduraria/backend/pkg/logger"
)

type registerRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	TaxID      string `json:"cpf,omitempty"`
	Phone      string `json:"phone,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Street     string `json:"street,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type federatedLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

type sessionResponse struct {
	Token string    `json:"token"`
	User  *userView `json:"user"`
}

// userView strips credential fields from API responses.
type userView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
	TaxID *string   `json:"cpf,omitempty"`
	Phone string    `json:"phone,omitempty"`
}

func viewOf(user *models.User) *userView {
	return &userView{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
		TaxID: user.TaxID,
		Phone: user.Phone,
	}
}

func sessionView(session *authsvc.Session) sessionResponse {
	return sessionResponse{Token: session.Token, User: viewOf(session.User)}
}

// AuthRegister creates a customer account and returns a session.
func AuthRegister(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Register(r.Context(), authsvc.RegisterInput{
			Name:       payload.Name,
			Email:      payload.Email,
			Password:   payload.Password,
			TaxID:      payload.TaxID,
			Phone:      payload.Phone,
			PostalCode: payload.PostalCode,
			Street:     payload.Street,
			District:   payload.District,
			City:       payload.City,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, sessionView(session))
	}
}

// AuthLogin exchanges email and password for a session.
func AuthLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Login(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sessionView(session))
	}
}

// AuthFederatedLogin exchanges a Google or Facebook token for a session.
// The provider name comes from the route.
func AuthFederatedLogin(svc authsvc.Service, provider string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload federatedLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.FederatedLogin(r.Context(), provider, payload.Token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sessionView(session))
	}
}

// AuthMe returns the authenticated user's profile.
func AuthMe(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		user, err := svc.Me(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, viewOf(user))
	}
}
