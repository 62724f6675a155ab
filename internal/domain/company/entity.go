package company

import "time"

type Company struct {
	ID          string
	CNPJ        string
	RazaoSocial string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
