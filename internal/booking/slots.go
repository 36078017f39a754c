package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/osteria-vecchia/reservations-api/internal/models"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"

	defaultSlotInterval = 15 // minutes
)

// GenerateSlots expands the opening hours for date's weekday into the ordered
// list of bookable slots. It is a pure function of (date, settings): same
// inputs always yield the same ascending sequence. A weekday without
// configured hours yields an empty list (the restaurant is closed that day).
// Reservation state is never consulted here.
func GenerateSlots(date string, settings models.Settings) ([]models.Slot, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	hours, ok := settings.OpeningHours[strings.ToLower(day.Weekday().String())]
	if !ok {
		return nil, nil
	}

	start, err := parseClock(hours.Start)
	if err != nil {
		return nil, fmt.Errorf("invalid opening time %q: %w", hours.Start, err)
	}
	end, err := parseClock(hours.End)
	if err != nil {
		return nil, fmt.Errorf("invalid closing time %q: %w", hours.End, err)
	}

	interval := settings.SlotIntervalMinutes
	if interval <= 0 {
		interval = defaultSlotInterval
	}

	var slots []models.Slot
	for m := start; m < end; m += interval {
		slots = append(slots, models.Slot{Time: formatClock(m), MaxGuests: settings.MaxCapacityPerSlot})
	}
	return slots, nil
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
