package domain

import "time"

// PeriodStatus is the state of an accounting period. Closed is terminal.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
)

// AccountingPeriod is an inclusive range of whole UTC days.
type AccountingPeriod struct {
	PeriodID  string       `json:"periodID"`
	Name      string       `json:"name"`
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	Status    PeriodStatus `json:"status"`
	ClosedAt  *time.Time   `json:"closedAt,omitempty"`
	ClosedBy  *string      `json:"closedBy,omitempty"`
	AuditFields
}

// Contains reports whether the day of t falls within the period.
func (p *AccountingPeriod) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(DateOf(p.StartDate)) && !d.After(DateOf(p.EndDate))
}

// Overlaps reports whether the inclusive range [start, end] intersects the period.
func (p *AccountingPeriod) Overlaps(start, end time.Time) bool {
	return !DateOf(start).After(DateOf(p.EndDate)) && !DateOf(end).Before(DateOf(p.StartDate))
}

// IsOpen reports whether entries may still be posted into the period.
func (p *AccountingPeriod) IsOpen() bool {
	return p.Status == PeriodOpen
}
