package leave

type CreateLeaveRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

type UpdateLeaveRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type DecideLeaveRequest struct {
	Action          string `json:"action" binding:"required,oneof=approve reject"`
	Comment         string `json:"comment"`
	RejectionReason string `json:"rejection_reason"`
}

type ListFilter struct {
	EmployeeID string
	Status     string
	Page       int
	PageSize   int

	// Departments restricts results to employees of these departments.
	// Empty plus Unscoped=false means "own requests only" was already
	// applied via EmployeeID.
	Departments []string
	Unscoped    bool
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name,omitempty"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	DaysCount       int     `json:"days_count"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	DecisionComment *string `json:"decision_comment,omitempty"`
	DecidedBy       *string `json:"decided_by,omitempty"`
	DecidedAt       *string `json:"decided_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

type BalanceResponse struct {
	EmployeeID           string `json:"employee_id"`
	BaseAnnualLeave      int    `json:"base_annual_leave"`
	CarryOverLeave       int    `json:"carry_over_leave"`
	CorrectionDays       int    `json:"correction_days"`
	TotalAnnualLeave     int    `json:"total_annual_leave"`
	UsedDays             int    `json:"used_days"`
	PendingDays          int    `json:"pending_days"`
	RemainingAnnualLeave int    `json:"remaining_annual_leave"`
}
