package payrollevent

import "errors"

var (
	ErrEventNotFound         = errors.New("payroll event not found")
	ErrEventAlreadyDecided   = errors.New("payroll event already approved or rejected")
	ErrEventAlreadyProcessed = errors.New("payroll event already processed, cannot transition")
	ErrInvalidPeriod         = errors.New("invalid period, expected YYYY-MM")
)
