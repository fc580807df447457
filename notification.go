/*
Copyright 2025 Partslane Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package fulfillment

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/partslane/fulfillment/internal/push"
	"github.com/partslane/fulfillment/model"
)

// Notify writes the durable in-app notification and then fans out to every
// active push endpoint the user has, across both channels. Only the durable
// write can fail the call; push delivery is best effort, and an endpoint
// reported gone by its provider is pruned so it is never tried again.
func (f *Fulfillment) Notify(ctx context.Context, n *model.Notification) error {
	saved, err := f.datasource.RecordNotification(ctx, n)
	if err != nil {
		return err
	}

	message := model.PushMessage{
		Title: saved.Title,
		Body:  saved.Message,
		Data:  saved.Data,
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		f.pushToDevices(ctx, saved.UserID, message)
	}()
	go func() {
		defer wg.Done()
		f.pushToSubscriptions(ctx, saved.UserID, message)
	}()
	wg.Wait()

	return nil
}

// notifyUsers fans one event out to several recipients. Per-recipient
// failures are logged and do not stop the rest of the fan-out.
func (f *Fulfillment) notifyUsers(ctx context.Context, userIDs []string, notificationType, title, body string, data map[string]string) {
	for _, userID := range userIDs {
		err := f.Notify(ctx, &model.Notification{
			UserID:  userID,
			Type:    notificationType,
			Title:   title,
			Message: body,
			Data:    data,
		})
		if err != nil {
			logrus.Errorf("failed to notify user %s: %v", userID, err)
		}
	}
}

func (f *Fulfillment) pushToDevices(ctx context.Context, userID string, message model.PushMessage) {
	tokens, err := f.datasource.GetActiveDeviceTokens(ctx, userID)
	if err != nil {
		logrus.Errorf("failed to load device tokens for %s: %v", userID, err)
		return
	}
	for _, token := range tokens {
		err := f.deviceChannel.Send(model.PushEndpoint{ID: token.TokenID, Address: token.Token}, message)
		if err == nil {
			continue
		}
		if errors.Is(err, push.ErrEndpointGone) {
			if err := f.datasource.DeactivateDeviceToken(ctx, token.Token); err != nil {
				logrus.Errorf("failed to deactivate device token %s: %v", token.TokenID, err)
			}
			continue
		}
		logrus.Warnf("device push to %s failed: %v", token.TokenID, err)
	}
}

func (f *Fulfillment) pushToSubscriptions(ctx context.Context, userID string, message model.PushMessage) {
	subscriptions, err := f.datasource.GetActivePushSubscriptions(ctx, userID)
	if err != nil {
		logrus.Errorf("failed to load push subscriptions for %s: %v", userID, err)
		return
	}
	for _, sub := range subscriptions {
		err := f.webChannel.Send(model.PushEndpoint{ID: sub.SubscriptionID, Address: sub.Endpoint, P256dh: sub.P256dh, Auth: sub.Auth}, message)
		if err == nil {
			continue
		}
		if errors.Is(err, push.ErrEndpointGone) {
			if err := f.datasource.DeletePushSubscription(ctx, sub.Endpoint); err != nil {
				logrus.Errorf("failed to delete push subscription %s: %v", sub.SubscriptionID, err)
			}
			continue
		}
		logrus.Warnf("web push to %s failed: %v", sub.SubscriptionID, err)
	}
}

func (f *Fulfillment) RegisterDeviceToken(ctx context.Context, token *model.DeviceToken) (*model.DeviceToken, error) {
	return f.datasource.RecordDeviceToken(ctx, token)
}

func (f *Fulfillment) RegisterPushSubscription(ctx context.Context, subscription *model.PushSubscription) (*model.PushSubscription, error) {
	return f.datasource.RecordPushSubscription(ctx, subscription)
}

func (f *Fulfillment) UnregisterDeviceToken(ctx context.Context, token string) error {
	return f.datasource.DeactivateDeviceToken(ctx, token)
}

func (f *Fulfillment) UnregisterPushSubscription(ctx context.Context, endpoint string) error {
	return f.datasource.DeletePushSubscription(ctx, endpoint)
}

func (f *Fulfillment) GetNotifications(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error) {
	return f.datasource.GetNotificationsForUser(ctx, userID, limit, offset)
}

func (f *Fulfillment) MarkNotificationRead(ctx context.Context, id string) error {
	return f.datasource.MarkNotificationRead(ctx, id)
}
