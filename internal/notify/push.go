package notify

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
)

type PushSender interface {
	// Send delivers to every token and returns the tokens the provider
	// reported as no longer registered.
	Send(ctx context.Context, tokens []string, msg PushMessage) (stale []string, err error)
}

type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

// Multicaster is the part of *messaging.Client the FCM sender needs.
type Multicaster interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

type FCMSender struct {
	client Multicaster
	log    zerolog.Logger
}

func NewFCMSender(client Multicaster, log zerolog.Logger) *FCMSender {
	return &FCMSender{client: client, log: log}
}

func (s *FCMSender) Send(ctx context.Context, tokens []string, msg PushMessage) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	resp, err := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:    "default",
				Priority: messaging.PriorityHigh,
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{"apns-priority": "10"},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{Title: msg.Title, Body: msg.Body},
					Sound: "default",
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fcm multicast: %w", err)
	}

	var stale []string
	for i, r := range resp.Responses {
		if r.Success || i >= len(tokens) {
			continue
		}
		if messaging.IsUnregistered(r.Error) {
			stale = append(stale, tokens[i])
			continue
		}
		s.log.Warn().Err(r.Error).Msg("push delivery failed")
	}

	if resp.SuccessCount == 0 && len(stale) < len(tokens) {
		return stale, fmt.Errorf("fcm: %d of %d deliveries failed", resp.FailureCount, len(tokens))
	}
	return stale, nil
}

type StubPushSender struct {
	log zerolog.Logger
}

func NewStubPushSender(log zerolog.Logger) *StubPushSender {
	return &StubPushSender{log: log}
}

func (s *StubPushSender) Send(_ context.Context, tokens []string, msg PushMessage) ([]string, error) {
	s.log.Debug().Int("devices", len(tokens)).Str("title", msg.Title).Msg("push not configured, skipping")
	return nil, nil
}
