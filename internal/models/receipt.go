package models

// PaymentMethodDemo tags receipts recorded by the simulated payment path.
const PaymentMethodDemo = "demo"

// Receipt defaults applied when a stored record omits the field.
const (
	DefaultCurrency = "INR"
	DefaultRegime   = "new"
)

// Receipt is an immutable record of a completed (or simulated) payment.
// Amount is in the currency's minor unit.
type Receipt struct {
	ID            string             `bson:"_id,omitempty" json:"id,omitempty"`
	UserEmail     string             `bson:"user_email" json:"user_email"`
	Amount        int64              `bson:"amount" json:"amount"`
	Currency      string             `bson:"currency,omitempty" json:"currency"`
	Regime        string             `bson:"regime,omitempty" json:"regime"`
	Allocation    map[string]float64 `bson:"allocation,omitempty" json:"allocation"`
	PaymentMethod string             `bson:"payment_method,omitempty" json:"payment_method"`
	Reference     *string            `bson:"reference,omitempty" json:"reference"`
}

// ApplyDefaults fills fields that older or partial records may lack.
func (r *Receipt) ApplyDefaults() {
	if r.Currency == "" {
		r.Currency = DefaultCurrency
	}
	if r.Regime == "" {
		r.Regime = DefaultRegime
	}
	if r.PaymentMethod == "" {
		r.PaymentMethod = PaymentMethodDemo
	}
	if r.Allocation == nil {
		r.Allocation = map[string]float64{}
	}
}
