package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is maintained by the HR edit flows; payroll only reads it.
type Employee struct {
	ID                 string
	FullName           string
	ShopID             string
	BaseSalary         decimal.Decimal
	TransportAllowance decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
