package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/osteria-vecchia/reservations-api/internal/models"
)

// ReservationPatch is a partial admin edit. Nil fields are left untouched.
// Admin edits deliberately skip capacity re-validation: an admin can knowingly
// overbook a slot, and promoting a waitlisted reservation to confirmed is an
// explicit admin action rather than an automatic process.
type ReservationPatch struct {
	Time            *string
	Guests          *int
	Status          *models.ReservationStatus
	Name            *string
	Email           *string
	Phone           *string
	SpecialRequests *string
}

func (p ReservationPatch) validate() *ValidationError {
	if p.Time != nil {
		if _, err := time.Parse(clockLayout, *p.Time); err != nil {
			return &ValidationError{Field: "time", Reason: "must be HH:MM"}
		}
	}
	if p.Guests != nil && *p.Guests < 1 {
		return &ValidationError{Field: "guests", Reason: "must be a positive number"}
	}
	if p.Status != nil && !p.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "must be confirmed, waitlist or cancelled"}
	}
	return nil
}

// UpdateReservation merges patch onto the reservation id in date's bucket and
// stamps the admin actor. Fails with ErrNotFound when the id is not in that
// bucket.
func (s *Service) UpdateReservation(ctx context.Context, date, id string, patch ReservationPatch) (*models.Reservation, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	if verr := patch.validate(); verr != nil {
		return nil, verr
	}

	var updated models.Reservation
	_, err := s.store.AtomicUpdate(ctx, dateKey(date), func(current []byte) ([]byte, error) {
		bucket, err := decodeBucket(current)
		if err != nil {
			return nil, err
		}
		idx := indexByID(bucket, id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s in bucket %s", ErrNotFound, id, date)
		}

		r := &bucket[idx]
		if patch.Time != nil {
			r.Time = *patch.Time
		}
		if patch.Guests != nil {
			r.Guests = *patch.Guests
		}
		if patch.Name != nil {
			r.Name = sanitize(*patch.Name)
		}
		if patch.Email != nil {
			r.Email = sanitize(*patch.Email)
		}
		if patch.Phone != nil {
			r.Phone = sanitize(*patch.Phone)
		}
		if patch.SpecialRequests != nil {
			r.SpecialRequests = sanitize(*patch.SpecialRequests)
		}
		now := s.now().UTC()
		if patch.Status != nil && *patch.Status != r.Status {
			r.Status = *patch.Status
			if r.Status == models.StatusCancelled {
				r.CancelledAt = &now
				r.CancelledBy = models.ActorAdmin
			} else {
				r.CancelledAt = nil
				r.CancelledBy = ""
			}
		}
		r.UpdatedAt = now
		r.UpdatedBy = models.ActorAdmin
		updated = *r
		return json.Marshal(bucket)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// CancelReservationByID is the admin-side cancel. Unlike the customer path it
// ignores the cancellation deadline and addresses the reservation directly by
// bucket and id.
func (s *Service) CancelReservationByID(ctx context.Context, date, id string) (*models.Reservation, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}

	var cancelled models.Reservation
	_, err := s.store.AtomicUpdate(ctx, dateKey(date), func(current []byte) ([]byte, error) {
		bucket, err := decodeBucket(current)
		if err != nil {
			return nil, err
		}
		idx := indexByID(bucket, id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s in bucket %s", ErrNotFound, id, date)
		}
		now := s.now().UTC()
		bucket[idx].Status = models.StatusCancelled
		bucket[idx].CancelledAt = &now
		bucket[idx].CancelledBy = models.ActorAdmin
		bucket[idx].UpdatedAt = now
		bucket[idx].UpdatedBy = models.ActorAdmin
		cancelled = bucket[idx]
		return json.Marshal(bucket)
	})
	if err != nil {
		return nil, err
	}

	s.notifyCancelled(cancelled)
	return &cancelled, nil
}

// ListReservations returns the full, ordered bucket for one date.
func (s *Service) ListReservations(ctx context.Context, date string) ([]models.Reservation, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	return s.bucket(ctx, date)
}

// SetDatesBlocked adds dates to or removes them from the blocked-dates list.
// The list is itself a shared record read by every availability check, so it
// goes through the same atomic primitive as the buckets.
func (s *Service) SetDatesBlocked(ctx context.Context, dates []string, blocked bool) (models.BlockedList, error) {
	if len(dates) == 0 {
		return models.BlockedList{}, &ValidationError{Field: "dates", Reason: "must not be empty"}
	}
	for _, d := range dates {
		if _, err := time.Parse(dateLayout, d); err != nil {
			return models.BlockedList{}, &ValidationError{Field: "dates", Reason: fmt.Sprintf("%q must be YYYY-MM-DD", d)}
		}
	}

	var out models.BlockedList
	_, err := s.store.AtomicUpdate(ctx, blockedKey, func(current []byte) ([]byte, error) {
		var list models.BlockedList
		if len(current) > 0 {
			if err := json.Unmarshal(current, &list); err != nil {
				return nil, fmt.Errorf("decode blocked-dates record: %w", err)
			}
		}
		set := make(map[string]bool, len(list.Dates))
		for _, d := range list.Dates {
			set[d] = true
		}
		for _, d := range dates {
			set[d] = blocked
		}
		list.Dates = list.Dates[:0]
		for d, on := range set {
			if on {
				list.Dates = append(list.Dates, d)
			}
		}
		sort.Strings(list.Dates)
		out = list
		return json.Marshal(list)
	})
	if err != nil {
		return models.BlockedList{}, err
	}
	return out, nil
}

// SetSlotBlocked blocks or unblocks a single (date, time) slot.
func (s *Service) SetSlotBlocked(ctx context.Context, date, slotTime string, blocked bool) (models.BlockedList, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return models.BlockedList{}, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	if _, err := time.Parse(clockLayout, slotTime); err != nil {
		return models.BlockedList{}, &ValidationError{Field: "time", Reason: "must be HH:MM"}
	}

	var out models.BlockedList
	_, err := s.store.AtomicUpdate(ctx, blockedKey, func(current []byte) ([]byte, error) {
		var list models.BlockedList
		if len(current) > 0 {
			if err := json.Unmarshal(current, &list); err != nil {
				return nil, fmt.Errorf("decode blocked-dates record: %w", err)
			}
		}
		slots := list.Slots[:0]
		for _, bs := range list.Slots {
			if !(bs.Date == date && bs.Time == slotTime) {
				slots = append(slots, bs)
			}
		}
		if blocked {
			slots = append(slots, models.BlockedSlot{Date: date, Time: slotTime})
			sort.Slice(slots, func(i, j int) bool {
				if slots[i].Date != slots[j].Date {
					return slots[i].Date < slots[j].Date
				}
				return slots[i].Time < slots[j].Time
			})
		}
		list.Slots = slots
		out = list
		return json.Marshal(list)
	})
	if err != nil {
		return models.BlockedList{}, err
	}
	return out, nil
}

// SaveSettings replaces the persisted settings record.
func (s *Service) SaveSettings(ctx context.Context, settings models.Settings) (models.Settings, error) {
	if settings.MaxCapacityPerSlot < 1 {
		return models.Settings{}, &ValidationError{Field: "max_capacity_per_slot", Reason: "must be a positive number"}
	}
	if settings.SlotIntervalMinutes < 1 {
		return models.Settings{}, &ValidationError{Field: "slot_interval_minutes", Reason: "must be a positive number"}
	}
	if settings.CancellationLeadHours < 0 {
		return models.Settings{}, &ValidationError{Field: "cancellation_lead_hours", Reason: "must not be negative"}
	}
	for day, hours := range settings.OpeningHours {
		if _, err := time.Parse(clockLayout, hours.Start); err != nil {
			return models.Settings{}, &ValidationError{Field: "opening_hours", Reason: fmt.Sprintf("%s start must be HH:MM", day)}
		}
		if _, err := time.Parse(clockLayout, hours.End); err != nil {
			return models.Settings{}, &ValidationError{Field: "opening_hours", Reason: fmt.Sprintf("%s end must be HH:MM", day)}
		}
	}
	if settings.Timezone != "" {
		if _, err := time.LoadLocation(settings.Timezone); err != nil {
			return models.Settings{}, &ValidationError{Field: "timezone", Reason: "must be a valid IANA timezone"}
		}
	}

	_, err := s.store.AtomicUpdate(ctx, settingsKey, func(current []byte) ([]byte, error) {
		return json.Marshal(settings)
	})
	if err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

func indexByID(bucket []models.Reservation, id string) int {
	for i := range bucket {
		if bucket[i].ID == id {
			return i
		}
	}
	return -1
}
