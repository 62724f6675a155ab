package payroll

import "errors"

var (
	ErrRubricaNotFound          = errors.New("rubrica not found")
	ErrRubricaCodigoExists      = errors.New("rubrica codigo already exists")
	ErrCalculationNotFound      = errors.New("payroll calculation not found")
	ErrCalculationNotCalculated = errors.New("calculation is not in calculated status")
	ErrFGTSConfigNotFound       = errors.New("fgts config not found")
)
