package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/osteria-vecchia/reservations-api/internal/models"
	"github.com/osteria-vecchia/reservations-api/internal/notifier"
	"github.com/osteria-vecchia/reservations-api/internal/store"
)

// Store keys. One bucket record per calendar date plus two singleton records.
// The key naming is the persistence contract; everything inside the records
// is opaque JSON.
const (
	dateKeyPrefix = "date-"
	settingsKey   = "settings"
	blockedKey    = "blocked-dates"
)

func dateKey(date string) string { return dateKeyPrefix + date }

const maxFieldLen = 500

// Service is the reservation lifecycle manager. All per-date mutations go
// through the store's AtomicUpdate so that two concurrent requests touching
// the same date never lose a write; requests for different dates never
// contend. There is no in-memory state between requests.
type Service struct {
	store    *store.Store
	defaults models.Settings
	notifier notifier.Notifier
	now      func() time.Time
}

func NewService(st *store.Store, defaults models.Settings, n notifier.Notifier) *Service {
	return &Service{store: st, defaults: defaults, notifier: n, now: time.Now}
}

// CreateRequest is the typed booking request schema.
type CreateRequest struct {
	Date            string
	Time            string
	Guests          int
	Name            string
	Email           string
	Phone           string
	SpecialRequests string
}

// CreateResult pairs the committed reservation with its assigned status, the
// record handed to the notification collaborator after the commit.
type CreateResult struct {
	Reservation models.Reservation
	Status      models.ReservationStatus
}

// Settings returns the persisted settings record, falling back to the
// configured defaults when none has been written yet.
func (s *Service) Settings(ctx context.Context) (models.Settings, error) {
	raw, err := s.store.Get(ctx, settingsKey)
	if errors.Is(err, store.ErrNotFound) {
		return s.defaults, nil
	}
	if err != nil {
		return models.Settings{}, err
	}
	var settings models.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return models.Settings{}, fmt.Errorf("decode settings record: %w", err)
	}
	return settings, nil
}

func (s *Service) blockedList(ctx context.Context) (models.BlockedList, error) {
	raw, err := s.store.Get(ctx, blockedKey)
	if errors.Is(err, store.ErrNotFound) {
		return models.BlockedList{}, nil
	}
	if err != nil {
		return models.BlockedList{}, err
	}
	var blocked models.BlockedList
	if err := json.Unmarshal(raw, &blocked); err != nil {
		return models.BlockedList{}, fmt.Errorf("decode blocked-dates record: %w", err)
	}
	return blocked, nil
}

func (s *Service) bucket(ctx context.Context, date string) ([]models.Reservation, error) {
	raw, err := s.store.Get(ctx, dateKey(date))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeBucket(raw)
}

func decodeBucket(raw []byte) ([]models.Reservation, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var bucket []models.Reservation
	if err := json.Unmarshal(raw, &bucket); err != nil {
		return nil, fmt.Errorf("decode day bucket: %w", err)
	}
	return bucket, nil
}

// Availability computes the per-slot report for one date. Idempotent: two
// calls with no intervening mutation return identical output.
func (s *Service) Availability(ctx context.Context, date string) (models.DayAvailability, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return models.DayAvailability{}, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return models.DayAvailability{}, err
	}
	blocked, err := s.blockedList(ctx)
	if err != nil {
		return models.DayAvailability{}, err
	}
	slots, err := GenerateSlots(date, settings)
	if err != nil {
		return models.DayAvailability{}, err
	}
	reservations, err := s.bucket(ctx, date)
	if err != nil {
		return models.DayAvailability{}, err
	}
	return CalculateAvailability(date, slots, reservations, blocked, settings.WaitlistEnabled), nil
}

// CreateReservation validates the request, decides confirmed vs waitlist
// against a fresh snapshot inside the atomic update, and commits the new
// reservation into its date bucket. Validation and business-rule rejections
// happen before anything is written; only the optimistic commit is retried,
// and only inside the store.
func (s *Service) CreateReservation(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	req.Name = sanitize(req.Name)
	req.Email = sanitize(req.Email)
	req.Phone = sanitize(req.Phone)
	req.SpecialRequests = sanitize(req.SpecialRequests)

	if verr := validateCreate(req); verr != nil {
		return nil, verr
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	blocked, err := s.blockedList(ctx)
	if err != nil {
		return nil, err
	}

	if blocked.DateBlocked(req.Date) {
		return nil, fmt.Errorf("%w: %s is not open for reservations", ErrSlotUnavailable, req.Date)
	}
	slots, err := GenerateSlots(req.Date, settings)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	if !slotExists(slots, req.Time) {
		return nil, fmt.Errorf("%w: no %s slot on %s", ErrSlotUnavailable, req.Time, req.Date)
	}
	if blocked.SlotBlocked(req.Date, req.Time) {
		return nil, fmt.Errorf("%w: %s %s is blocked", ErrSlotUnavailable, req.Date, req.Time)
	}

	var result CreateResult
	_, err = s.store.AtomicUpdate(ctx, dateKey(req.Date), func(current []byte) ([]byte, error) {
		bucket, err := decodeBucket(current)
		if err != nil {
			return nil, err
		}

		// Decide against the freshest snapshot; on an optimistic conflict
		// the store re-runs this whole closure.
		report := CalculateAvailability(req.Date, slots, bucket, blocked, settings.WaitlistEnabled)
		slot, err := slotFor(report, req.Time)
		if err != nil {
			return nil, err
		}

		status := models.StatusConfirmed
		if slot.RemainingCapacity < req.Guests {
			if !settings.WaitlistEnabled {
				return nil, fmt.Errorf("%w: %s %s has %d seats left", ErrSlotFull, req.Date, req.Time, slot.RemainingCapacity)
			}
			status = models.StatusWaitlist
		}

		now := s.now().UTC()
		reservation := models.Reservation{
			ID:               uuid.NewString(),
			ConfirmationCode: newConfirmationCode(now),
			Date:             req.Date,
			Time:             req.Time,
			Guests:           req.Guests,
			Status:           status,
			Name:             req.Name,
			Email:            req.Email,
			Phone:            req.Phone,
			SpecialRequests:  req.SpecialRequests,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		bucket = append(bucket, reservation)
		result = CreateResult{Reservation: reservation, Status: status}
		return json.Marshal(bucket)
	})
	if err != nil {
		return nil, err
	}

	s.notifyCreated(result)
	return &result, nil
}

// CancelReservation cancels a reservation by confirmation code. The lookup is
// a linear scan across all date buckets; there is no secondary index (known
// scalability gap at larger volumes). Ownership is checked by email, and the
// cancellation deadline is the reservation start minus the configured lead
// time in the restaurant's timezone.
func (s *Service) CancelReservation(ctx context.Context, code, email string) (*models.Reservation, error) {
	code = sanitize(code)
	email = sanitize(email)
	if code == "" {
		return nil, &ValidationError{Field: "confirmation_code", Reason: "is required"}
	}
	if email == "" {
		return nil, &ValidationError{Field: "email", Reason: "is required"}
	}

	buckets, err := s.store.List(ctx, dateKeyPrefix)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var found *models.Reservation
	for _, key := range keys {
		bucket, err := decodeBucket(buckets[key])
		if err != nil {
			return nil, err
		}
		for i := range bucket {
			if strings.EqualFold(bucket[i].ConfirmationCode, code) {
				found = &bucket[i]
				break
			}
		}
		if found != nil {
			break
		}
	}
	// A wrong email and an unknown code are indistinguishable on purpose,
	// and a cancelled reservation is terminal for customer actions.
	if found == nil || !strings.EqualFold(found.Email, email) || found.Status == models.StatusCancelled {
		return nil, fmt.Errorf("%w: no active reservation for this code", ErrNotFound)
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	deadline, err := cancellationDeadline(*found, settings)
	if err != nil {
		return nil, err
	}
	if s.now().After(deadline) {
		return nil, fmt.Errorf("%w: reservations must be cancelled at least %dh in advance",
			ErrCancellationWindowClosed, settings.CancellationLeadHours)
	}

	var cancelled models.Reservation
	_, err = s.store.AtomicUpdate(ctx, dateKey(found.Date), func(current []byte) ([]byte, error) {
		bucket, err := decodeBucket(current)
		if err != nil {
			return nil, err
		}
		idx := -1
		for i := range bucket {
			if bucket[i].ID == found.ID {
				idx = i
				break
			}
		}
		if idx < 0 || bucket[idx].Status == models.StatusCancelled {
			return nil, fmt.Errorf("%w: no active reservation for this code", ErrNotFound)
		}
		now := s.now().UTC()
		bucket[idx].Status = models.StatusCancelled
		bucket[idx].CancelledAt = &now
		bucket[idx].CancelledBy = models.ActorCustomer
		bucket[idx].UpdatedAt = now
		bucket[idx].UpdatedBy = models.ActorCustomer
		cancelled = bucket[idx]
		return json.Marshal(bucket)
	})
	if err != nil {
		return nil, err
	}

	s.notifyCancelled(cancelled)
	return &cancelled, nil
}

// cancellationDeadline is the last instant at which a customer cancellation
// is still accepted. An attempt exactly at the deadline succeeds.
func cancellationDeadline(r models.Reservation, settings models.Settings) (time.Time, error) {
	loc := time.UTC
	if settings.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(settings.Timezone)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
		}
	}
	start, err := time.ParseInLocation(dateLayout+" "+clockLayout, r.Date+" "+r.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("reservation %s has unparsable start: %w", r.ID, err)
	}
	return start.Add(-time.Duration(settings.CancellationLeadHours) * time.Hour), nil
}

func (s *Service) notifyCreated(result CreateResult) {
	if s.notifier == nil {
		return
	}
	go func() {
		if err := s.notifier.ReservationCreated(result.Reservation, result.Status); err != nil {
			log.Printf("reservation %s: notification failed: %v", result.Reservation.ID, err)
		}
	}()
}

func (s *Service) notifyCancelled(r models.Reservation) {
	if s.notifier == nil {
		return
	}
	go func() {
		if err := s.notifier.ReservationCancelled(r); err != nil {
			log.Printf("reservation %s: cancellation notification failed: %v", r.ID, err)
		}
	}()
}

func validateCreate(req CreateRequest) *ValidationError {
	if req.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if req.Email == "" {
		return &ValidationError{Field: "email", Reason: "is required"}
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return &ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	if req.Phone == "" {
		return &ValidationError{Field: "phone", Reason: "is required"}
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	if _, err := time.Parse(clockLayout, req.Time); err != nil {
		return &ValidationError{Field: "time", Reason: "must be HH:MM"}
	}
	if req.Guests < 1 {
		return &ValidationError{Field: "guests", Reason: "must be a positive number"}
	}
	return nil
}

func slotExists(slots []models.Slot, slotTime string) bool {
	for _, s := range slots {
		if s.Time == slotTime {
			return true
		}
	}
	return false
}

// sanitize trims guest-supplied text, strips control characters and caps the
// length.
func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if len(s) > maxFieldLen {
		s = s[:maxFieldLen]
	}
	return s
}
