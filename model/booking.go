package model

import "time"

// Booking types. A booking is a single-provider service request, either a
// mechanic call-out or a logistics pickup.
const (
	BookingTypeMechanic  = "mechanic"
	BookingTypeLogistics = "logistics"
)

const (
	BookingStatusPending    = "PENDING"
	BookingStatusConfirmed  = "CONFIRMED"
	BookingStatusInProgress = "IN_PROGRESS"
	BookingStatusCompleted  = "COMPLETED"
	BookingStatusCancelled  = "CANCELLED"
)

type Booking struct {
	BookingID   string                 `json:"booking_id"`
	Type        string                 `json:"type"`
	RequesterID string                 `json:"requester_id"`
	ProviderID  string                 `json:"provider_id,omitempty"` // empty until assigned
	Status      string                 `json:"status"`
	Description string                 `json:"description"`
	CreatedAt   time.Time              `json:"created_at"`
	MetaData    map[string]interface{} `json:"meta_data,omitempty"`
}

var bookingTransitions = map[string][]string{
	BookingStatusPending:    {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:  {BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusInProgress: {BookingStatusCompleted},
}

type bookingEdge struct {
	from string
	to   string
}

var bookingEdgeRoles = map[bookingEdge][]string{
	{BookingStatusPending, BookingStatusConfirmed}:    {RoleMechanic, RoleLogistics, RoleAdmin},
	{BookingStatusPending, BookingStatusCancelled}:    {RoleBuyer, RoleAdmin},
	{BookingStatusConfirmed, BookingStatusInProgress}: {RoleMechanic, RoleLogistics, RoleAdmin},
	{BookingStatusConfirmed, BookingStatusCancelled}:  {RoleBuyer, RoleMechanic, RoleLogistics, RoleAdmin},
	{BookingStatusInProgress, BookingStatusCompleted}: {RoleMechanic, RoleLogistics, RoleAdmin},
}

func ValidBookingStatus(s string) bool {
	if _, ok := bookingTransitions[s]; ok {
		return true
	}
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

func BookingEdgeExists(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func BookingEdgeAllowed(from, to, role string) bool {
	for _, allowed := range bookingEdgeRoles[bookingEdge{from, to}] {
		if allowed == role {
			return true
		}
	}
	return false
}

func BookingStatusTerminal(s string) bool {
	return len(bookingTransitions[s]) == 0
}
