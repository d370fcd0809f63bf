package loanmath

import "github.com/shopspring/decimal"

// MonthlyPayment computes the standard amortizing-loan payment
// P * (r/12 * (1+r/12)^n) / ((1+r/12)^n - 1) with decimal arithmetic.
// annualRate is a fraction (0.075 for 7.5%). A non-positive principal
// yields 0; a zero rate degenerates to principal/termMonths.
func MonthlyPayment(principal, annualRate float64, termMonths int) float64 {
	if principal <= 0 || termMonths <= 0 {
		return 0
	}
	p := decimal.NewFromFloat(principal)
	if annualRate == 0 {
		out, _ := p.Div(decimal.NewFromInt(int64(termMonths))).Round(2).Float64()
		return out
	}
	monthly := decimal.NewFromFloat(annualRate).Div(decimal.NewFromInt(12))
	factor := decimal.NewFromInt(1).Add(monthly).Pow(decimal.NewFromInt(int64(termMonths)))
	num := p.Mul(monthly).Mul(factor)
	den := factor.Sub(decimal.NewFromInt(1))
	out, _ := num.Div(den).Round(2).Float64()
	return out
}
