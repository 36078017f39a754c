package models

// BlockedSlot removes a single time on a single date from availability.
type BlockedSlot struct {
	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:MM
}

// BlockedList is the administrative override list. It is stored as one record
// and consulted before slot expansion on every availability check.
type BlockedList struct {
	Dates []string      `json:"dates"`
	Slots []BlockedSlot `json:"slots"`
}

func (b BlockedList) DateBlocked(date string) bool {
	for _, d := range b.Dates {
		if d == date {
			return true
		}
	}
	return false
}

func (b BlockedList) SlotBlocked(date, time string) bool {
	for _, s := range b.Slots {
		if s.Date == date && s.Time == time {
			return true
		}
	}
	return false
}
