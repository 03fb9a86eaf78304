package adaptor

import (
	"errors"
	"net"
	"net/http"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Venues  []*VenueHandler
	Booking *BookingHandler
	Admin   *AdminHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	venues := make([]*VenueHandler, 0, len(entity.VenueTypes))
	for _, t := range entity.VenueTypes {
		venues = append(venues, NewVenueHandler(t, service.Venue, service.Availability, service.Link, log))
	}

	return &Handler{
		Auth:    NewAuthHandler(service.Auth, config.Session, log),
		Venues:  venues,
		Booking: NewBookingHandler(service.Booking, log),
		Admin:   NewAdminHandler(service.Admin, log),
	}
}

// writeServiceError maps usecase errors to HTTP responses. Unexpected errors are
// logged and reported as a generic 500.
func writeServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var verr *usecase.ValidationError

	switch {
	case errors.As(err, &verr):
		log.Warn(operation+" validation failed", zap.String("message", verr.Message))
		utils.ResponseBadRequest(w, verr.Message, verr.Fields)

	case errors.Is(err, usecase.ErrUnauthorized),
		errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrLinkInvalid):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrVenueNotFound),
		errors.Is(err, usecase.ErrBookingNotFound),
		errors.Is(err, usecase.ErrAdminNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrEmailTaken),
		errors.Is(err, usecase.ErrSlotTaken),
		errors.Is(err, usecase.ErrAlreadyCancelled):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrLinkExpired):
		log.Warn(operation+" failed - link expired", zap.Error(err))
		utils.ResponseGone(w, err.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// sessionFromRequest returns the session user attached by the optional auth middleware.
func sessionFromRequest(r *http.Request) *utils.SessionUser {
	user, ok := utils.GetSessionUser(r.Context())
	if !ok {
		return nil
	}
	return &user
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
