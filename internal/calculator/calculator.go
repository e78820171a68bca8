// Package calculator implements fixed-rate mortgage arithmetic.
package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/bilgisen/finsmart/internal/models"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidTerm is returned when the loan term is not a positive number of years
var ErrInvalidTerm = errors.New("loan term must be at least one year")

var validate = validator.New()

// MonthlyPayment returns the fixed monthly payment for a loan of principal
// at annualRate percent over years. A term below one year is treated as one
// year so the payment count never reaches zero.
func MonthlyPayment(principal, annualRate float64, years int) float64 {
	if years < 1 {
		years = 1
	}
	r := annualRate / 100 / 12
	n := float64(years * 12)

	// growth-1 via Expm1 so rates too small to move 1+r don't divide by zero
	excess := math.Expm1(n * math.Log1p(r))
	if r == 0 || excess == 0 {
		return principal / n
	}
	return principal * r * (1 + excess) / excess
}

// Calculate validates in and returns the payment with its derived totals.
// The schedule is only filled when in.Schedule is set.
func Calculate(in models.LoanInputs) (models.LoanResult, error) {
	if in.Years < 1 {
		return models.LoanResult{}, ErrInvalidTerm
	}
	if err := validate.Struct(in); err != nil {
		return models.LoanResult{}, fmt.Errorf("invalid loan inputs: %w", err)
	}

	payment := MonthlyPayment(in.Principal, in.InterestRate, in.Years)
	total := payment * float64(in.Years*12)

	res := models.LoanResult{
		MonthlyPayment: payment,
		Display:        FormatPayment(payment),
		TotalPaid:      total,
		TotalInterest:  total - in.Principal,
	}
	if in.Schedule {
		res.Schedule = Schedule(in.Principal, in.InterestRate, in.Years)
	}
	return res, nil
}

// Schedule builds a yearly amortization table. The final row always ends
// with a zero balance.
func Schedule(principal, annualRate float64, years int) []models.ScheduleRow {
	if years < 1 {
		years = 1
	}
	r := annualRate / 100 / 12
	payment := MonthlyPayment(principal, annualRate, years)
	balance := principal

	rows := make([]models.ScheduleRow, 0, years)
	for y := 1; y <= years; y++ {
		row := models.ScheduleRow{Year: y}
		for m := 0; m < 12; m++ {
			interest := balance * r
			toPrincipal := payment - interest
			if toPrincipal > balance {
				toPrincipal = balance
			}
			balance -= toPrincipal
			row.InterestPaid += interest
			row.PrincipalPaid += toPrincipal
		}
		if y == years || balance < 0.005 {
			balance = 0
		}
		row.RemainingBalance = balance
		rows = append(rows, row)
	}
	return rows
}
