package model

import "time"

// Payment settlement statuses. completed and failed are sticky: once a
// payment reaches either, every further apply call is a no-op.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment methods the gateway reports.
const (
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
	PaymentMethodCOD      = "cash_on_delivery"
)

// Payment is one settlement attempt for an order. GatewayReference is
// unique per attempt and is the key every reconciliation entry point
// converges on.
type Payment struct {
	PaymentID        string     `json:"payment_id"`
	OrderID          string     `json:"order_id"`
	Method           string     `json:"method"`
	GatewayReference string     `json:"gateway_reference"`
	Status           string     `json:"status"`
	Amount           int64      `json:"amount"`
	Currency         string     `json:"currency"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// PaymentTerminal reports whether the payment has reached a sticky state.
func PaymentTerminal(s string) bool {
	return s == PaymentCompleted || s == PaymentFailed
}

// Trade-in settlement statuses. Trade-ins ride along with the order's
// payment: a completed payment settles them in the same transaction.
const (
	TradeInPending = "PENDING"
	TradeInSettled = "SETTLED"
)

type TradeIn struct {
	TradeInID string    `json:"trade_in_id"`
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
