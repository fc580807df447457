package model

import "time"

// Order statuses. The graph below is the only source of truth for which
// moves are legal; statuses never move backwards.
const (
	OrderStatusPending       = "PENDING"
	OrderStatusConfirmed     = "CONFIRMED"
	OrderStatusPendingCOD    = "PENDING_COD_CONFIRMATION"
	OrderStatusCODConfirmed  = "COD_CONFIRMED"
	OrderStatusProcessing    = "PROCESSING"
	OrderStatusShipped       = "SHIPPED"
	OrderStatusDelivered     = "DELIVERED"
	OrderStatusCancelled     = "CANCELLED"
)

// Order payment status is a separate slot from the order status and only
// ever moves PENDING -> PAID | FAILED.
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusFailed  = "FAILED"
)

type Order struct {
	OrderID       string                 `json:"order_id"`
	TrackingID    string                 `json:"tracking_id"` // external-facing code shared with the buyer
	BuyerID       string                 `json:"buyer_id"`
	Status        string                 `json:"status"`
	PaymentStatus string                 `json:"payment_status"`
	Amount        int64                  `json:"amount"`
	Currency      string                 `json:"currency"`
	CreatedAt     time.Time              `json:"created_at"`
	MetaData      map[string]interface{} `json:"meta_data,omitempty"`
}

// orderTransitions is the legal status graph. A target absent from the
// source's list is an INVALID_TRANSITION no matter who asks.
var orderTransitions = map[string][]string{
	OrderStatusPending:      {OrderStatusConfirmed, OrderStatusPendingCOD, OrderStatusCancelled},
	OrderStatusPendingCOD:   {OrderStatusCODConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:    {OrderStatusProcessing, OrderStatusShipped, OrderStatusCancelled},
	OrderStatusCODConfirmed: {OrderStatusProcessing, OrderStatusShipped, OrderStatusCancelled},
	OrderStatusProcessing:   {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:      {OrderStatusDelivered},
}

type orderEdge struct {
	from string
	to   string
}

// orderEdgeRoles scopes each edge to the roles that may trigger it.
// DELIVERED is buyer-confirmed only; the paid edges belong to the system
// (payment reconciliation) and admins.
var orderEdgeRoles = map[orderEdge][]string{
	{OrderStatusPending, OrderStatusConfirmed}:       {RoleSupplier, RoleAdmin, RoleSystem},
	{OrderStatusPending, OrderStatusPendingCOD}:      {RoleBuyer, RoleAdmin},
	{OrderStatusPending, OrderStatusCancelled}:       {RoleBuyer, RoleSupplier, RoleAdmin},
	{OrderStatusPendingCOD, OrderStatusCODConfirmed}: {RoleAdmin, RoleSystem},
	{OrderStatusPendingCOD, OrderStatusCancelled}:    {RoleBuyer, RoleAdmin},
	{OrderStatusConfirmed, OrderStatusProcessing}:    {RoleSupplier, RoleAdmin},
	{OrderStatusConfirmed, OrderStatusShipped}:       {RoleSupplier, RoleAdmin},
	{OrderStatusConfirmed, OrderStatusCancelled}:     {RoleSupplier, RoleAdmin},
	{OrderStatusCODConfirmed, OrderStatusProcessing}: {RoleSupplier, RoleAdmin},
	{OrderStatusCODConfirmed, OrderStatusShipped}:    {RoleSupplier, RoleAdmin},
	{OrderStatusCODConfirmed, OrderStatusCancelled}:  {RoleSupplier, RoleAdmin},
	{OrderStatusProcessing, OrderStatusShipped}:      {RoleSupplier, RoleAdmin},
	{OrderStatusProcessing, OrderStatusCancelled}:    {RoleSupplier, RoleAdmin},
	{OrderStatusShipped, OrderStatusDelivered}:       {RoleBuyer},
}

// ValidOrderStatus reports whether s is a known order status enum value.
func ValidOrderStatus(s string) bool {
	if _, ok := orderTransitions[s]; ok {
		return true
	}
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// OrderEdgeExists reports whether from -> to is present in the graph.
func OrderEdgeExists(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderEdgeAllowed reports whether role may trigger the from -> to edge.
// Call OrderEdgeExists first; an unknown edge is never allowed.
func OrderEdgeAllowed(from, to, role string) bool {
	for _, allowed := range orderEdgeRoles[orderEdge{from, to}] {
		if allowed == role {
			return true
		}
	}
	return false
}

// OrderStatusTerminal reports whether no further transition is legal.
func OrderStatusTerminal(s string) bool {
	return len(orderTransitions[s]) == 0
}

// PaidOrderTarget resolves the "paid/confirmed" edge for an order in the
// given status. Payment reconciliation advances along exactly this edge on
// a successful outcome; orders in any other status have no paid edge.
func PaidOrderTarget(current string) (string, bool) {
	switch current {
	case OrderStatusPending:
		return OrderStatusConfirmed, true
	case OrderStatusPendingCOD:
		return OrderStatusCODConfirmed, true
	default:
		return "", false
	}
}
