package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/osteria-vecchia/reservations-api/internal/booking"
	"github.com/osteria-vecchia/reservations-api/internal/models"
	"github.com/osteria-vecchia/reservations-api/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testSettings() models.Settings {
	hours := make(map[string]models.OpenHours)
	for _, d := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		hours[d] = models.OpenHours{Start: "09:00", End: "21:00"}
	}
	return models.Settings{
		MaxCapacityPerSlot:    40,
		SlotIntervalMinutes:   15,
		OpeningHours:          hours,
		WaitlistEnabled:       true,
		CancellationLeadHours: 24,
		Timezone:              "UTC",
	}
}

func newTestHandlers(t *testing.T, settings models.Settings) (*ReservationHandler, *AdminHandler) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&store.Record{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	svc := booking.NewService(store.NewWithRetry(db, 5, time.Millisecond), settings, nil)
	return NewReservationHandler(svc), NewAdminHandler(svc)
}

func createInput(date, slotTime string, guests int) *CreateReservationInput {
	input := &CreateReservationInput{}
	input.Body.Date = date
	input.Body.Time = slotTime
	input.Body.Guests = guests
	input.Body.Name = "Grace Hopper"
	input.Body.Email = "grace@example.com"
	input.Body.Phone = "+1 555 0100"
	return input
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	se, ok := err.(huma.StatusError)
	if !ok {
		t.Fatalf("expected a huma status error, got %v", err)
	}
	return se.GetStatus()
}

func TestHandleCreateAndAvailability(t *testing.T) {
	// Far enough out that the cancellation window stays open.
	date := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	resHandler, _ := newTestHandlers(t, testSettings())
	ctx := context.Background()

	resp, err := resHandler.HandleCreate(ctx, createInput(date, "19:00", 4))
	if err != nil {
		t.Fatalf("HandleCreate returned error: %v", err)
	}
	if resp.Body.Status != models.StatusConfirmed {
		t.Errorf("expected confirmed, got %s", resp.Body.Status)
	}
	if resp.Body.Reservation.ConfirmationCode == "" {
		t.Error("expected a confirmation code")
	}

	avail, err := resHandler.HandleAvailability(ctx, &AvailabilityInput{Date: date})
	if err != nil {
		t.Fatalf("HandleAvailability returned error: %v", err)
	}
	if !avail.Body.Open {
		t.Error("expected date to be open")
	}
	if len(avail.Body.Slots) != 48 {
		t.Fatalf("expected 48 slots, got %d", len(avail.Body.Slots))
	}
	for _, slot := range avail.Body.Slots {
		if slot.Time == "19:00" {
			if slot.CommittedGuests != 4 || slot.RemainingCapacity != 36 {
				t.Errorf("expected 4 committed / 36 remaining, got %+v", slot)
			}
		}
	}
}

func TestHandleCreateErrorMapping(t *testing.T) {
	date := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	ctx := context.Background()

	t.Run("ValidationIs422", func(t *testing.T) {
		resHandler, _ := newTestHandlers(t, testSettings())
		input := createInput(date, "19:00", 4)
		input.Body.Email = "not-an-email"
		_, err := resHandler.HandleCreate(ctx, input)
		if got := statusOf(t, err); got != 422 {
			t.Errorf("expected 422, got %d", got)
		}
	})

	t.Run("UnknownSlotIs409", func(t *testing.T) {
		resHandler, _ := newTestHandlers(t, testSettings())
		_, err := resHandler.HandleCreate(ctx, createInput(date, "03:00", 4))
		if got := statusOf(t, err); got != 409 {
			t.Errorf("expected 409, got %d", got)
		}
	})

	t.Run("SlotFullIs409", func(t *testing.T) {
		settings := testSettings()
		settings.WaitlistEnabled = false
		resHandler, _ := newTestHandlers(t, settings)
		if _, err := resHandler.HandleCreate(ctx, createInput(date, "19:00", 40)); err != nil {
			t.Fatalf("HandleCreate returned error: %v", err)
		}
		_, err := resHandler.HandleCreate(ctx, createInput(date, "19:00", 2))
		if got := statusOf(t, err); got != 409 {
			t.Errorf("expected 409, got %d", got)
		}
	})

	t.Run("FullSlotGoesToWaitlist", func(t *testing.T) {
		resHandler, _ := newTestHandlers(t, testSettings())
		if _, err := resHandler.HandleCreate(ctx, createInput(date, "19:00", 40)); err != nil {
			t.Fatalf("HandleCreate returned error: %v", err)
		}
		resp, err := resHandler.HandleCreate(ctx, createInput(date, "19:00", 2))
		if err != nil {
			t.Fatalf("HandleCreate returned error: %v", err)
		}
		if resp.Body.Status != models.StatusWaitlist {
			t.Errorf("expected waitlist, got %s", resp.Body.Status)
		}
	})
}

func TestHandleCancel(t *testing.T) {
	date := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	resHandler, _ := newTestHandlers(t, testSettings())
	ctx := context.Background()

	created, err := resHandler.HandleCreate(ctx, createInput(date, "19:00", 4))
	if err != nil {
		t.Fatalf("HandleCreate returned error: %v", err)
	}

	t.Run("UnknownCodeIs404", func(t *testing.T) {
		input := &CancelReservationInput{}
		input.Body.ConfirmationCode = "NOSUCHCODE"
		input.Body.Email = "grace@example.com"
		_, err := resHandler.HandleCancel(ctx, input)
		if got := statusOf(t, err); got != 404 {
			t.Errorf("expected 404, got %d", got)
		}
	})

	t.Run("Success", func(t *testing.T) {
		input := &CancelReservationInput{}
		input.Body.ConfirmationCode = created.Body.Reservation.ConfirmationCode
		input.Body.Email = "grace@example.com"
		resp, err := resHandler.HandleCancel(ctx, input)
		if err != nil {
			t.Fatalf("HandleCancel returned error: %v", err)
		}
		if resp.Body.Reservation.Status != models.StatusCancelled {
			t.Errorf("expected cancelled, got %s", resp.Body.Reservation.Status)
		}
	})
}

func TestAdminHandlers(t *testing.T) {
	date := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	resHandler, adminHandler := newTestHandlers(t, testSettings())
	ctx := context.Background()

	created, err := resHandler.HandleCreate(ctx, createInput(date, "19:00", 4))
	if err != nil {
		t.Fatalf("HandleCreate returned error: %v", err)
	}
	id := created.Body.Reservation.ID

	t.Run("List", func(t *testing.T) {
		resp, err := adminHandler.HandleList(ctx, &ListReservationsInput{Date: date})
		if err != nil {
			t.Fatalf("HandleList returned error: %v", err)
		}
		if len(resp.Body.Reservations) != 1 || resp.Body.Reservations[0].ID != id {
			t.Errorf("expected the created reservation, got %+v", resp.Body.Reservations)
		}
	})

	t.Run("ListEmptyDate", func(t *testing.T) {
		resp, err := adminHandler.HandleList(ctx, &ListReservationsInput{Date: "2031-01-01"})
		if err != nil {
			t.Fatalf("HandleList returned error: %v", err)
		}
		if resp.Body.Reservations == nil || len(resp.Body.Reservations) != 0 {
			t.Errorf("expected empty (non-nil) list, got %+v", resp.Body.Reservations)
		}
	})

	t.Run("Update", func(t *testing.T) {
		guests := 8
		input := &UpdateReservationInput{Date: date, ID: id}
		input.Body.Guests = &guests
		resp, err := adminHandler.HandleUpdate(ctx, input)
		if err != nil {
			t.Fatalf("HandleUpdate returned error: %v", err)
		}
		if resp.Body.Reservation.Guests != 8 {
			t.Errorf("expected guests 8, got %d", resp.Body.Reservation.Guests)
		}
		if resp.Body.Reservation.UpdatedBy != models.ActorAdmin {
			t.Errorf("expected updatedBy admin, got %s", resp.Body.Reservation.UpdatedBy)
		}
	})

	t.Run("UpdateUnknownIs404", func(t *testing.T) {
		guests := 2
		input := &UpdateReservationInput{Date: date, ID: "missing"}
		input.Body.Guests = &guests
		_, err := adminHandler.HandleUpdate(ctx, input)
		if got := statusOf(t, err); got != 404 {
			t.Errorf("expected 404, got %d", got)
		}
	})

	t.Run("BlockDates", func(t *testing.T) {
		input := &BlockDatesInput{}
		input.Body.Dates = []string{"2030-12-25"}
		input.Body.Blocked = true
		resp, err := adminHandler.HandleBlockDates(ctx, input)
		if err != nil {
			t.Fatalf("HandleBlockDates returned error: %v", err)
		}
		if !resp.Body.DateBlocked("2030-12-25") {
			t.Errorf("expected 2030-12-25 blocked, got %+v", resp.Body)
		}

		avail, err := resHandler.HandleAvailability(ctx, &AvailabilityInput{Date: "2030-12-25"})
		if err != nil {
			t.Fatalf("HandleAvailability returned error: %v", err)
		}
		if avail.Body.Open {
			t.Error("expected blocked date to report closed")
		}
	})

	t.Run("BlockSlot", func(t *testing.T) {
		input := &BlockSlotInput{}
		input.Body.Date = date
		input.Body.Time = "20:00"
		input.Body.Blocked = true
		resp, err := adminHandler.HandleBlockSlot(ctx, input)
		if err != nil {
			t.Fatalf("HandleBlockSlot returned error: %v", err)
		}
		if !resp.Body.SlotBlocked(date, "20:00") {
			t.Errorf("expected slot blocked, got %+v", resp.Body)
		}

		_, err = resHandler.HandleCreate(ctx, createInput(date, "20:00", 2))
		if got := statusOf(t, err); got != 409 {
			t.Errorf("expected 409 for blocked slot, got %d", got)
		}
	})

	t.Run("AdminCancel", func(t *testing.T) {
		resp, err := adminHandler.HandleCancel(ctx, &CancelByIDInput{Date: date, ID: id})
		if err != nil {
			t.Fatalf("HandleCancel returned error: %v", err)
		}
		if resp.Body.Reservation.Status != models.StatusCancelled {
			t.Errorf("expected cancelled, got %s", resp.Body.Reservation.Status)
		}
		if resp.Body.Reservation.CancelledBy != models.ActorAdmin {
			t.Errorf("expected cancelledBy admin, got %s", resp.Body.Reservation.CancelledBy)
		}
	})

	t.Run("SaveSettings", func(t *testing.T) {
		settings := testSettings()
		settings.MaxCapacityPerSlot = 10
		resp, err := adminHandler.HandleSaveSettings(ctx, &SaveSettingsInput{Body: settings})
		if err != nil {
			t.Fatalf("HandleSaveSettings returned error: %v", err)
		}
		if resp.Body.MaxCapacityPerSlot != 10 {
			t.Errorf("expected saved capacity 10, got %d", resp.Body.MaxCapacityPerSlot)
		}

		avail, _ := resHandler.HandleAvailability(ctx, &AvailabilityInput{Date: "2031-01-01"})
		if len(avail.Body.Slots) > 0 && avail.Body.Slots[0].MaxGuests != 10 {
			t.Errorf("expected availability to use saved capacity, got %d", avail.Body.Slots[0].MaxGuests)
		}

		bad := testSettings()
		bad.SlotIntervalMinutes = 0
		_, err = adminHandler.HandleSaveSettings(ctx, &SaveSettingsInput{Body: bad})
		if got := statusOf(t, err); got != 422 {
			t.Errorf("expected 422, got %d", got)
		}
	})
}
