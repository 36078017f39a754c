package models

// Slot is a bookable time-of-day point expanded from the opening hours. Slots
// are derived on every query, never stored.
type Slot struct {
	Time      string `json:"time"` // HH:MM
	MaxGuests int    `json:"max_guests"`
}

// SlotAvailability is the per-slot portion of an availability report.
type SlotAvailability struct {
	Time              string `json:"time"`
	MaxGuests         int    `json:"max_guests"`
	CommittedGuests   int    `json:"committed_guests"`
	RemainingCapacity int    `json:"remaining_capacity"`
	Available         bool   `json:"available"`
	WaitlistEligible  bool   `json:"waitlist_eligible"`
	Reason            string `json:"reason,omitempty"`
}

// DayAvailability is the full availability report for one calendar date.
type DayAvailability struct {
	Date   string             `json:"date"`
	Open   bool               `json:"open"`
	Reason string             `json:"reason,omitempty"`
	Slots  []SlotAvailability `json:"slots"`
}
