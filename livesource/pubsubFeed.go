package livesource

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"cloud.google.com/go/pubsub"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Publisher writes live updates for screens to pick up.
type Publisher interface {
	Publish(ctx context.Context, u Update) error
}

// Applied is notified after an update reached its store.
type Applied func(u Update)

// Feed applies live updates arriving from Pub/Sub to the registered stores.
type Feed struct {
	router  *Router
	logger  *logrus.Logger
	applied Applied
}

func NewFeed(router *Router, logger *logrus.Logger, applied Applied) *Feed {
	if logger == nil {
		logger = config.GetLogger()
	}
	return &Feed{router: router, logger: logger, applied: applied}
}

// Handle decodes one message and applies it.
func (f *Feed) Handle(ctx context.Context, data []byte) error {
	u, err := DecodeUpdate(data)
	if err != nil {
		return err
	}
	if err := f.router.Apply(u); err != nil {
		return err
	}
	f.logger.WithFields(logrus.Fields{
		"field":          "livesource.Feed",
		"screen":         u.Screen,
		"op":             u.Op,
		"correlation_id": u.CorrelationId,
	}).Debug("live update applied")
	if f.applied != nil {
		f.applied(u)
	}
	return nil
}

// Receive pulls from sub until ctx is done. Every message is acked: a
// payload that cannot be applied now will not apply on redelivery either.
func (f *Feed) Receive(ctx context.Context, sub *pubsub.Subscription) error {
	sub.ReceiveSettings.MaxOutstandingMessages = 10
	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if err := f.Handle(ctx, msg.Data); err != nil {
			config.LogError(f.logger, "livesource", "Feed.Receive", "apply live update", map[string]string{"message_id": msg.ID}, err)
		}
		msg.Ack()
	})
}

// PushHandler is the Pub/Sub push endpoint. Malformed or unroutable
// messages are acked (204) to avoid infinite retries.
func (f *Feed) PushHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			config.LogError(f.logger, "livesource", "Feed.PushHandler", "io.ReadAll", nil, err)
			c.Status(http.StatusNoContent)
			return
		}

		// byte slice unmarshalling handles base64 decoding.
		var envelope PubSubPushEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			config.LogError(f.logger, "livesource", "Feed.PushHandler", "Unmarshal body", string(body), err)
			c.Status(http.StatusNoContent)
			return
		}

		if err := f.Handle(c.Request.Context(), envelope.Message.Data); err != nil {
			config.LogError(f.logger, "livesource", "Feed.PushHandler", "apply live update", map[string]string{"message_id": envelope.Message.ID}, err)
		}
		c.Status(http.StatusNoContent)
	}
}

// PubSubPublisher publishes updates to a topic.
type PubSubPublisher struct {
	Topic string
}

func (p PubSubPublisher) Publish(ctx context.Context, u Update) error {
	data, err := u.Encode()
	if err != nil {
		return err
	}
	_, err = config.PublishLiveUpdate(ctx, p.Topic, data, map[string]string{"screen": u.Screen, "op": string(u.Op)})
	return err
}

// Subscribe ensures topic and subscription exist and starts receiving in the
// background. Errors from the receive loop are logged.
func (f *Feed) Subscribe(ctx context.Context, topicName, subscription string) error {
	client, err := config.GetClient(ctx)
	if err != nil {
		return err
	}
	topic, err := config.CreateTopicIfNotExists(ctx, client, topicName)
	if err != nil {
		return err
	}
	sub, err := config.CreateSubscriptionIfNotExists(ctx, client, subscription, topic)
	if err != nil {
		return err
	}

	go func() {
		if err := f.Receive(ctx, sub); err != nil && ctx.Err() == nil {
			config.LogError(f.logger, "livesource", "Feed.Subscribe", "Failed to receive messages", nil, err)
		}
	}()
	return nil
}
