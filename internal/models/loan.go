package models

// LoanInputs are the mortgage calculator inputs
type LoanInputs struct {
	Principal    float64 `json:"principal" query:"principal" validate:"gt=0"`
	InterestRate float64 `json:"interest_rate" query:"rate" validate:"gte=0,lte=100"`
	Years        int     `json:"years" query:"years" validate:"oneof=10 15 20 25 30"`
	Schedule     bool    `json:"-" query:"schedule"`
}

// LoanResult holds the computed payment and derived totals
type LoanResult struct {
	MonthlyPayment float64       `json:"monthly_payment"`
	Display        string        `json:"display"`
	TotalPaid      float64       `json:"total_paid"`
	TotalInterest  float64       `json:"total_interest"`
	Schedule       []ScheduleRow `json:"schedule,omitempty"`
}

// ScheduleRow summarises one year of an amortization schedule
type ScheduleRow struct {
	Year             int     `json:"year"`
	PrincipalPaid    float64 `json:"principal_paid"`
	InterestPaid     float64 `json:"interest_paid"`
	RemainingBalance float64 `json:"remaining_balance"`
}
