package adjustment

import "time"

type CreateAdjustmentRequest struct {
	EmployeeID    string `json:"employee_id" binding:"required,uuid"`
	Amount        int    `json:"amount" binding:"required"`
	Type          string `json:"type" binding:"required,oneof=carry_over correction"`
	EffectiveYear int    `json:"effective_year" binding:"required,min=2000,max=2200"`
	Note          string `json:"note" binding:"max=500"`
}

type ListFilter struct {
	EmployeeID string
	Year       int
}

type AdjustmentResponse struct {
	ID            string    `json:"id"`
	EmployeeID    string    `json:"employee_id"`
	Amount        int       `json:"amount"`
	Type          string    `json:"type"`
	EffectiveYear int       `json:"effective_year"`
	Note          string    `json:"note,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

type RolloverRequest struct {
	Year int `json:"year" binding:"required,min=2000,max=2200"`
}

// RolloverResult summarizes a year-end rollover run.
type RolloverResult struct {
	Year           int `json:"year"`
	Processed      int `json:"processed"`
	Skipped        int `json:"skipped"`
	TotalCarried   int `json:"total_carried"`
	TotalForfeited int `json:"total_forfeited"`
}
