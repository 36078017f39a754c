package handlers

import (
	"context"

	"github.com/osteria-vecchia/reservations-api/internal/booking"
	"github.com/osteria-vecchia/reservations-api/internal/models"
)

type ReservationHandler struct {
	svc *booking.Service
}

func NewReservationHandler(svc *booking.Service) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

type AvailabilityInput struct {
	Date string `query:"date" pattern:"^\\d{4}-\\d{2}-\\d{2}$" doc:"Calendar date (YYYY-MM-DD)"`
}

type AvailabilityOutput struct {
	Body models.DayAvailability
}

func (h *ReservationHandler) HandleAvailability(ctx context.Context, input *AvailabilityInput) (*AvailabilityOutput, error) {
	report, err := h.svc.Availability(ctx, input.Date)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return &AvailabilityOutput{Body: report}, nil
}

type CreateReservationInput struct {
	Body struct {
		Date            string `json:"date" pattern:"^\\d{4}-\\d{2}-\\d{2}$" doc:"Reservation date (YYYY-MM-DD)"`
		Time            string `json:"time" pattern:"^\\d{2}:\\d{2}$" doc:"Slot time (HH:MM)"`
		Guests          int    `json:"guests" minimum:"1" doc:"Number of guests"`
		Name            string `json:"name" minLength:"1" doc:"Guest name"`
		Email           string `json:"email" format:"email" doc:"Contact email"`
		Phone           string `json:"phone" minLength:"1" doc:"Contact phone"`
		SpecialRequests string `json:"special_requests,omitempty" doc:"Allergies, seating wishes, etc."`
	}
}

type ReservationOutput struct {
	Body struct {
		Reservation models.Reservation       `json:"reservation"`
		Status      models.ReservationStatus `json:"status"`
	}
}

func (h *ReservationHandler) HandleCreate(ctx context.Context, input *CreateReservationInput) (*ReservationOutput, error) {
	result, err := h.svc.CreateReservation(ctx, booking.CreateRequest{
		Date:            input.Body.Date,
		Time:            input.Body.Time,
		Guests:          input.Body.Guests,
		Name:            input.Body.Name,
		Email:           input.Body.Email,
		Phone:           input.Body.Phone,
		SpecialRequests: input.Body.SpecialRequests,
	})
	if err != nil {
		return nil, mapDomainError(err)
	}

	res := &ReservationOutput{}
	res.Body.Reservation = result.Reservation
	res.Body.Status = result.Status
	return res, nil
}

type CancelReservationInput struct {
	Body struct {
		ConfirmationCode string `json:"confirmation_code" minLength:"1" doc:"Code from the confirmation message"`
		Email            string `json:"email" format:"email" doc:"Email the reservation was made with"`
	}
}

type CancelReservationOutput struct {
	Body struct {
		Reservation models.Reservation `json:"reservation"`
		Message     string             `json:"message"`
	}
}

func (h *ReservationHandler) HandleCancel(ctx context.Context, input *CancelReservationInput) (*CancelReservationOutput, error) {
	cancelled, err := h.svc.CancelReservation(ctx, input.Body.ConfirmationCode, input.Body.Email)
	if err != nil {
		return nil, mapDomainError(err)
	}

	res := &CancelReservationOutput{}
	res.Body.Reservation = *cancelled
	res.Body.Message = "Reservation cancelled"
	return res, nil
}
