package service

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"timeclock/internal/logger"
)

// Pusher delivers a title/body pair to device tokens.
type Pusher interface {
	Push(ctx context.Context, tokens []string, title, body string) error
}

// fcmMulticastLimit is the most tokens FCM accepts in one multicast call.
const fcmMulticastLimit = 500

type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCMPusher sends through Firebase Cloud Messaging.
type FCMPusher struct {
	client multicastSender
}

// NewFCMPusher builds a messaging client for projectID. An empty
// credentialsFile uses Application Default Credentials.
func NewFCMPusher(ctx context.Context, projectID, credentialsFile string) (*FCMPusher, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging: %w", err)
	}
	return &FCMPusher{client: client}, nil
}

// Push fails only when no token at all received the message.
func (p *FCMPusher) Push(ctx context.Context, tokens []string, title, body string) error {
	if len(tokens) == 0 {
		return nil
	}
	var sent, failed int
	var firstErr error
	for start := 0; start < len(tokens); start += fcmMulticastLimit {
		end := min(start+fcmMulticastLimit, len(tokens))
		resp, err := p.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens:       tokens[start:end],
			Notification: &messaging.Notification{Title: title, Body: body},
		})
		if err != nil {
			return fmt.Errorf("fcm send: %w", err)
		}
		sent += resp.SuccessCount
		failed += resp.FailureCount
		for i, r := range resp.Responses {
			if r.Success {
				continue
			}
			if firstErr == nil {
				firstErr = r.Error
			}
			if messaging.IsUnregistered(r.Error) {
				logger.Warn("push.token_unregistered", "token", tokens[start+i])
			}
		}
	}
	if sent == 0 && failed > 0 {
		return fmt.Errorf("fcm: all %d deliveries failed: %w", failed, firstErr)
	}
	return nil
}
