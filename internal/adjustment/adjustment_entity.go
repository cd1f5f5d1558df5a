package adjustment

import (
	"time"

	"github.com/google/uuid"
)

// Adjustment types recorded in the ledger.
const (
	TypeCarryOver  = "carry_over"
	TypeCorrection = "correction"
	TypeForfeit    = "forfeit"
)

// LeaveAdjustment is an append-only ledger row that shifts an employee's
// balance for a given year. Rows are never updated or deleted; corrections
// are expressed as new rows.
type LeaveAdjustment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_adjustments_employee_year" json:"employee_id"`
	Amount        int       `gorm:"not null" json:"amount"`
	Type          string    `gorm:"type:varchar(20);not null" json:"type"`
	EffectiveYear int       `gorm:"not null;index:idx_leave_adjustments_employee_year" json:"effective_year"`
	Note          string    `gorm:"type:text" json:"note"`
	CreatedBy     uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

func (LeaveAdjustment) TableName() string {
	return "leave_adjustments"
}

// ValidTypes lists the types accepted on manual creation. Forfeit rows are
// only written by the rollover job.
var ValidTypes = map[string]bool{
	TypeCarryOver:  true,
	TypeCorrection: true,
}
