package models

// OpenHours is the opening window for one weekday.
type OpenHours struct {
	Start string `json:"start"` // HH:MM
	End   string `json:"end"`   // HH:MM
}

// Settings drives slot generation and the booking decision. A single settings
// record is persisted in the store; when it is absent the configured defaults
// apply. Weekday keys are lowercase English names ("monday" ... "sunday");
// a weekday without an entry is closed.
type Settings struct {
	MaxCapacityPerSlot    int                  `json:"max_capacity_per_slot"`
	SlotIntervalMinutes   int                  `json:"slot_interval_minutes"`
	OpeningHours          map[string]OpenHours `json:"opening_hours"`
	WaitlistEnabled       bool                 `json:"waitlist_enabled"`
	CancellationLeadHours int                  `json:"cancellation_lead_hours"`
	Timezone              string               `json:"timezone"` // IANA name, e.g. "Europe/Rome"
}
