package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"teleka/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// Defaults applied to pushes that omit fields, matching what the admin
// service worker shows.
const (
	DefaultTitle = "Teleka Notification"
	DefaultBody  = "You have a new notification"
	DefaultURL   = "/admin/alert.html"
	defaultIcon  = "/ims/1110.png"
	defaultTag   = "teleka-notification"
)

// NotificationService sends pushes to the admin devices.
type NotificationService interface {
	NotifyAdmins(ctx context.Context, payload models.PushPayload) error
}

// MessageSender is the subset of the FCM client used here.
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotificationService publishes to the admin topic over FCM.
type FCMNotificationService struct {
	sender MessageSender
	topic  string
	logger *zap.Logger
}

func NewFCMNotificationService(sender MessageSender, topic string, logger *zap.Logger) (*FCMNotificationService, error) {
	if sender == nil {
		return nil, fmt.Errorf("notification service initialization error: FCM client is nil")
	}
	if topic == "" {
		return nil, fmt.Errorf("notification service initialization error: admin topic is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FCMNotificationService{sender: sender, topic: topic, logger: logger}, nil
}

func (s *FCMNotificationService) NotifyAdmins(ctx context.Context, payload models.PushPayload) error {
	msg, err := BuildAdminMessage(payload, s.topic)
	if err != nil {
		return err
	}
	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("NotifyAdmins: failed to send FCM message: %w", err)
	}
	s.logger.Info("admin push sent", zap.String("messageId", id), zap.String("topic", s.topic))
	return nil
}

// BuildAdminMessage turns a payload into a topic message. FCM data values
// must be strings, so the booking travels as JSON.
func BuildAdminMessage(payload models.PushPayload, topic string) (*messaging.Message, error) {
	if payload.Title == "" {
		payload.Title = DefaultTitle
	}
	if payload.Body == "" {
		payload.Body = DefaultBody
	}
	if payload.Data.URL == "" {
		payload.Data.URL = DefaultURL
	}

	data := map[string]string{
		"url":       payload.Data.URL,
		"playSound": "true",
	}
	if payload.Data.Booking != nil {
		b, err := json.Marshal(payload.Data.Booking)
		if err != nil {
			return nil, fmt.Errorf("encode booking: %w", err)
		}
		data["booking"] = string(b)
	}

	return &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data: data,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title:              payload.Title,
				Body:               payload.Body,
				Icon:               defaultIcon,
				Badge:              defaultIcon,
				Tag:                defaultTag,
				Renotify:           true,
				RequireInteraction: true,
				Vibrate:            []int{200, 100, 200},
			},
			FCMOptions: &messaging.WebpushFCMOptions{Link: payload.Data.URL},
		},
	}, nil
}

// LogNotificationService records pushes in the log when FCM is not
// configured.
type LogNotificationService struct {
	logger *zap.Logger
}

func NewLogNotificationService(logger *zap.Logger) *LogNotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotificationService{logger: logger}
}

func (s *LogNotificationService) NotifyAdmins(_ context.Context, payload models.PushPayload) error {
	s.logger.Info("admin push (FCM disabled)",
		zap.String("title", payload.Title),
		zap.String("body", payload.Body),
		zap.String("url", payload.Data.URL),
	)
	return nil
}
