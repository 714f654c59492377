package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
)

// notificationEvent is the payload consumed by the external mail service.
type notificationEvent struct {
	NotificationID string `json:"notificationId"`
	AdoptionID     string `json:"adoptionId"`
	To             string `json:"to"`
	ToName         string `json:"toName,omitempty"`
	Subject        string `json:"subject"`
	HTMLBody       string `json:"htmlBody"`
	PetName        string `json:"petName,omitempty"`
	PreviousStatus string `json:"previousStatus"`
	Status         string `json:"status"`
}

// PubSubMailer publishes rendered notifications to a Pub/Sub topic.
type PubSubMailer struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	logger    *slog.Logger
}

// NewPubSubMailer connects to projectID and verifies topicID exists.
func NewPubSubMailer(ctx context.Context, projectID, topicID string, logger *slog.Logger) (*PubSubMailer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	topicPath := fmt.Sprintf("projects/%s/topics/%s", projectID, topicID)
	if _, err := client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: topicPath}); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "failed to get topic %s", topicID)
	}
	logger.Info("pub/sub notification publisher initialized",
		slog.String("project_id", projectID),
		slog.String("topic_id", topicID),
	)
	return &PubSubMailer{client: client, publisher: client.Publisher(topicID), logger: logger}, nil
}

func (m *PubSubMailer) Send(ctx context.Context, msg ports.EmailMessage) error {
	data, err := json.Marshal(notificationEvent{
		NotificationID: msg.NotificationID,
		AdoptionID:     msg.AdoptionID,
		To:             msg.To,
		ToName:         msg.ToName,
		Subject:        msg.Subject,
		HTMLBody:       msg.HTMLBody,
		PetName:        msg.PetName,
		PreviousStatus: string(msg.PreviousStatus),
		Status:         string(msg.Status),
	})
	if err != nil {
		return errors.WithStack(err)
	}
	result := m.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"notification_id": msg.NotificationID,
			"adoption_id":     msg.AdoptionID,
			"status":          string(msg.Status),
		},
	})
	serverID, err := result.Get(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	m.logger.LogAttrs(ctx, slog.LevelDebug, "notification event published",
		slog.String("notification.id", msg.NotificationID),
		slog.String("server_id", serverID),
	)
	return nil
}

// Close releases Pub/Sub client resources.
func (m *PubSubMailer) Close() error {
	if m.publisher != nil {
		m.publisher.Stop()
	}
	if m.client != nil {
		return errors.WithStack(m.client.Close())
	}
	return nil
}

var _ ports.Mailer = (*PubSubMailer)(nil)
