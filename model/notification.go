package model

import "time"

// Notification is the durable in-app record. It is written before any push
// channel is attempted and is the source of truth for "was the user
// notified". Read is the only field that changes after creation.
type Notification struct {
	NotificationID string            `json:"notification_id"`
	UserID         string            `json:"user_id"`
	Type           string            `json:"type"`
	Title          string            `json:"title"`
	Message        string            `json:"message"`
	Data           map[string]string `json:"data,omitempty"`
	Read           bool              `json:"read"`
	CreatedAt      time.Time         `json:"created_at"`
}

// DeviceToken is a mobile push endpoint. Deactivated, never deleted, when
// the provider reports the token gone.
type DeviceToken struct {
	TokenID   string    `json:"token_id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// PushSubscription is a browser web-push endpoint. Pruned outright when the
// provider reports it gone, because a dead subscription can never revive.
type PushSubscription struct {
	SubscriptionID string    `json:"subscription_id"`
	UserID         string    `json:"user_id"`
	Endpoint       string    `json:"endpoint"`
	P256dh         string    `json:"p256dh"`
	Auth           string    `json:"auth"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// PushEndpoint is the channel-neutral view of a delivery endpoint handed to
// a push channel.
type PushEndpoint struct {
	ID      string
	Address string
	P256dh  string
	Auth    string
}

type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}
