package handlers

import (
	"context"

	"github.com/osteria-vecchia/reservations-api/internal/booking"
	"github.com/osteria-vecchia/reservations-api/internal/models"
)

type AdminHandler struct {
	svc *booking.Service
}

func NewAdminHandler(svc *booking.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type ListReservationsInput struct {
	Date string `path:"date" pattern:"^\\d{4}-\\d{2}-\\d{2}$" doc:"Calendar date (YYYY-MM-DD)"`
}

type ListReservationsOutput struct {
	Body struct {
		Date         string               `json:"date"`
		Reservations []models.Reservation `json:"reservations"`
	}
}

func (h *AdminHandler) HandleList(ctx context.Context, input *ListReservationsInput) (*ListReservationsOutput, error) {
	reservations, err := h.svc.ListReservations(ctx, input.Date)
	if err != nil {
		return nil, mapDomainError(err)
	}

	res := &ListReservationsOutput{}
	res.Body.Date = input.Date
	res.Body.Reservations = reservations
	if res.Body.Reservations == nil {
		res.Body.Reservations = []models.Reservation{}
	}
	return res, nil
}

type UpdateReservationInput struct {
	Date string `path:"date" pattern:"^\\d{4}-\\d{2}-\\d{2}$"`
	ID   string `path:"id" doc:"Reservation id"`
	Body struct {
		Time            *string `json:"time,omitempty" doc:"New slot time (HH:MM)"`
		Guests          *int    `json:"guests,omitempty"`
		Status          *string `json:"status,omitempty" enum:"confirmed,waitlist,cancelled"`
		Name            *string `json:"name,omitempty"`
		Email           *string `json:"email,omitempty"`
		Phone           *string `json:"phone,omitempty"`
		SpecialRequests *string `json:"special_requests,omitempty"`
	}
}

type AdminReservationOutput struct {
	Body struct {
		Reservation models.Reservation `json:"reservation"`
	}
}

func (h *AdminHandler) HandleUpdate(ctx context.Context, input *UpdateReservationInput) (*AdminReservationOutput, error) {
	patch := booking.ReservationPatch{
		Time:            input.Body.Time,
		Guests:          input.Body.Guests,
		Name:            input.Body.Name,
		Email:           input.Body.Email,
		Phone:           input.Body.Phone,
		SpecialRequests: input.Body.SpecialRequests,
	}
	if input.Body.Status != nil {
		status := models.ReservationStatus(*input.Body.Status)
		patch.Status = &status
	}

	updated, err := h.svc.UpdateReservation(ctx, input.Date, input.ID, patch)
	if err != nil {
		return nil, mapDomainError(err)
	}

	res := &AdminReservationOutput{}
	res.Body.Reservation = *updated
	return res, nil
}

type CancelByIDInput struct {
	Date string `path:"date" pattern:"^\\d{4}-\\d{2}-\\d{2}$"`
	ID   string `path:"id" doc:"Reservation id"`
}

func (h *AdminHandler) HandleCancel(ctx context.Context, input *CancelByIDInput) (*AdminReservationOutput, error) {
	cancelled, err := h.svc.CancelReservationByID(ctx, input.Date, input.ID)
	if err != nil {
		return nil, mapDomainError(err)
	}

	res := &AdminReservationOutput{}
	res.Body.Reservation = *cancelled
	return res, nil
}

type BlockDatesInput struct {
	Body struct {
		Dates   []string `json:"dates" minItems:"1" doc:"Dates to block or unblock (YYYY-MM-DD)"`
		Blocked bool     `json:"blocked" doc:"true to block, false to unblock"`
	}
}

type BlockedListOutput struct {
	Body models.BlockedList
}

func (h *AdminHandler) HandleBlockDates(ctx context.Context, input *BlockDatesInput) (*BlockedListOutput, error) {
	list, err := h.svc.SetDatesBlocked(ctx, input.Body.Dates, input.Body.Blocked)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return &BlockedListOutput{Body: list}, nil
}

type BlockSlotInput struct {
	Body struct {
		Date    string `json:"date" pattern:"^\\d{4}-\\d{2}-\\d{2}$"`
		Time    string `json:"time" pattern:"^\\d{2}:\\d{2}$"`
		Blocked bool   `json:"blocked"`
	}
}

func (h *AdminHandler) HandleBlockSlot(ctx context.Context, input *BlockSlotInput) (*BlockedListOutput, error) {
	list, err := h.svc.SetSlotBlocked(ctx, input.Body.Date, input.Body.Time, input.Body.Blocked)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return &BlockedListOutput{Body: list}, nil
}

type SaveSettingsInput struct {
	Body models.Settings
}

type SettingsOutput struct {
	Body models.Settings
}

func (h *AdminHandler) HandleSaveSettings(ctx context.Context, input *SaveSettingsInput) (*SettingsOutput, error) {
	saved, err := h.svc.SaveSettings(ctx, input.Body)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return &SettingsOutput{Body: saved}, nil
}
