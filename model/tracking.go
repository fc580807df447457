package model

import "time"

// Subject types a tracking record can attach to.
const (
	SubjectTypeOrder   = "order"
	SubjectTypeBooking = "booking"
)

// Tracking statuses are an operational signal reported by the provider on
// the ground. They are deliberately distinct from the subject's own
// business status and the two are allowed to diverge transiently; the
// state machine alone owns the business-visible status.
const (
	TrackingStatusPending       = "PENDING"
	TrackingStatusAssigned      = "ASSIGNED"
	TrackingStatusPickedUp      = "PICKED_UP"
	TrackingStatusEnRoute       = "EN_ROUTE"
	TrackingStatusArrived       = "ARRIVED"
	TrackingStatusDelivered     = "DELIVERED"
	TrackingStatusFailedAttempt = "FAILED_ATTEMPT"
)

func ValidTrackingStatus(s string) bool {
	switch s {
	case TrackingStatusPending, TrackingStatusAssigned, TrackingStatusPickedUp,
		TrackingStatusEnRoute, TrackingStatusArrived, TrackingStatusDelivered,
		TrackingStatusFailedAttempt:
		return true
	}
	return false
}

// TrackingRecord is the one-to-one live projection for a subject. Exactly
// one record exists per subject; assigned_provider_id is only ever written
// through the assignment service.
type TrackingRecord struct {
	TrackingID         string     `json:"tracking_id"`
	SubjectID          string     `json:"subject_id"`
	SubjectType        string     `json:"subject_type"`
	Status             string     `json:"status"`
	AssignedProviderID string     `json:"assigned_provider_id,omitempty"`
	CurrentLocation    string     `json:"current_location,omitempty"`
	EstimatedArrival   *time.Time `json:"estimated_arrival,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TrackingEvent is an append-only history entry. Immutable once created.
type TrackingEvent struct {
	EventID    string    `json:"event_id"`
	TrackingID string    `json:"tracking_id"`
	Status     string    `json:"status"`
	Location   string    `json:"location,omitempty"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// Tracking is the read projection served to the buyer and the assigned
// provider: the live record plus its ordered event history.
type Tracking struct {
	TrackingRecord
	Events []TrackingEvent `json:"events"`
}
