package rewards

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// WithdrawRequest - exactly one of the two amounts must be positive;
// the other is derived from the configured conversion rate.
type WithdrawRequest struct {
	AmountPoints   int64           `json:"amount_points"`
	AmountRupees   decimal.Decimal `json:"amount_rupees"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentDetails string          `json:"payment_details"`
}

func (r WithdrawRequest) Validate() error {
	pointsGiven := r.AmountPoints > 0
	rupeesGiven := r.AmountRupees.IsPositive()
	if pointsGiven == rupeesGiven {
		return ErrInvalidAmount
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.PaymentMethod, validation.Required, validation.Length(1, 100)),
	)
}

// WithdrawalFilter - optional query filters for the ledger listing
type WithdrawalFilter struct {
	Limit  int
	Offset int
}
