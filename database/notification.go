package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/partslane/fulfillment/internal/apierror"
	"github.com/partslane/fulfillment/model"
)

func (d Datasource) RecordNotification(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	if n.NotificationID == "" {
		n.NotificationID = model.GenerateUUIDWithSuffix("ntf")
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	dataJSON, err := json.Marshal(n.Data)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Failed to marshal notification data", err)
	}

	_, err = d.Conn.ExecContext(ctx, `
		INSERT INTO notifications (notification_id, user_id, type, title, message, data, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, n.NotificationID, n.UserID, n.Type, n.Title, n.Message, dataJSON, n.Read, n.CreatedAt)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record notification", err)
	}

	return n, nil
}

func (d Datasource) GetNotificationsForUser(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT notification_id, user_id, type, title, message, data, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve notifications", err)
	}
	defer rows.Close()

	notifications := []model.Notification{}
	for rows.Next() {
		n := model.Notification{}
		var dataJSON []byte
		err = rows.Scan(&n.NotificationID, &n.UserID, &n.Type, &n.Title, &n.Message, &dataJSON, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan notification", err)
		}
		if len(dataJSON) > 0 {
			if err = json.Unmarshal(dataJSON, &n.Data); err != nil {
				return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal notification data", err)
			}
		}
		notifications = append(notifications, n)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over notifications", err)
	}

	return notifications, nil
}

func (d Datasource) MarkNotificationRead(ctx context.Context, id string) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE WHERE notification_id = $1
	`, id)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to mark notification read", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Notification with ID '%s' not found", id), nil)
	}

	return nil
}

// RecordDeviceToken registers a device token, reactivating it when the same
// token is registered again after a deactivation.
func (d Datasource) RecordDeviceToken(ctx context.Context, t *model.DeviceToken) (*model.DeviceToken, error) {
	if t.TokenID == "" {
		t.TokenID = model.GenerateUUIDWithSuffix("dvt")
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.IsActive = true

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO device_tokens (token_id, user_id, token, platform, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (token) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			platform = EXCLUDED.platform,
			is_active = TRUE
	`, t.TokenID, t.UserID, t.Token, t.Platform, t.IsActive, t.CreatedAt)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record device token", err)
	}

	return t, nil
}

func (d Datasource) GetActiveDeviceTokens(ctx context.Context, userID string) ([]model.DeviceToken, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT token_id, user_id, token, platform, is_active, created_at
		FROM device_tokens
		WHERE user_id = $1 AND is_active = TRUE
	`, userID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve device tokens", err)
	}
	defer rows.Close()

	tokens := []model.DeviceToken{}
	for rows.Next() {
		t := model.DeviceToken{}
		err = rows.Scan(&t.TokenID, &t.UserID, &t.Token, &t.Platform, &t.IsActive, &t.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan device token", err)
		}
		tokens = append(tokens, t)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over device tokens", err)
	}

	return tokens, nil
}

func (d Datasource) DeactivateDeviceToken(ctx context.Context, token string) error {
	_, err := d.Conn.ExecContext(ctx, `
		UPDATE device_tokens SET is_active = FALSE WHERE token = $1
	`, token)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to deactivate device token", err)
	}
	return nil
}

func (d Datasource) RecordPushSubscription(ctx context.Context, s *model.PushSubscription) (*model.PushSubscription, error) {
	if s.SubscriptionID == "" {
		s.SubscriptionID = model.GenerateUUIDWithSuffix("sub")
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.IsActive = true

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO push_subscriptions (subscription_id, user_id, endpoint, p256dh, auth, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (endpoint) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			p256dh = EXCLUDED.p256dh,
			auth = EXCLUDED.auth,
			is_active = TRUE
	`, s.SubscriptionID, s.UserID, s.Endpoint, s.P256dh, s.Auth, s.IsActive, s.CreatedAt)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record push subscription", err)
	}

	return s, nil
}

func (d Datasource) GetActivePushSubscriptions(ctx context.Context, userID string) ([]model.PushSubscription, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT subscription_id, user_id, endpoint, p256dh, auth, is_active, created_at
		FROM push_subscriptions
		WHERE user_id = $1 AND is_active = TRUE
	`, userID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve push subscriptions", err)
	}
	defer rows.Close()

	subscriptions := []model.PushSubscription{}
	for rows.Next() {
		s := model.PushSubscription{}
		err = rows.Scan(&s.SubscriptionID, &s.UserID, &s.Endpoint, &s.P256dh, &s.Auth, &s.IsActive, &s.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan push subscription", err)
		}
		subscriptions = append(subscriptions, s)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over push subscriptions", err)
	}

	return subscriptions, nil
}

// DeletePushSubscription removes a web push subscription outright. Browsers
// mint a fresh endpoint on re-subscribe, so a dead one is never revived.
func (d Datasource) DeletePushSubscription(ctx context.Context, endpoint string) error {
	_, err := d.Conn.ExecContext(ctx, `
		DELETE FROM push_subscriptions WHERE endpoint = $1
	`, endpoint)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to delete push subscription", err)
	}
	return nil
}
