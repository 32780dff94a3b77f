package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Ashiksyedmuhammad/React-User-Management/internal/domain"
	pkgkafka "github.com/Ashiksyedmuhammad/React-User-Management/pkg/kafka"
)

// Kafka topic constants for user lifecycle events.
const (
	TopicUserRegistered = "portal.user.registered"
	TopicUserUpdated    = "portal.user.updated"
	TopicUserDeleted    = "portal.user.deleted"
)

// Aggregate type constant.
const AggregateTypeUser = "user"

// Source identifier for events originating from the portal server.
const SourcePortal = "portal"

// Publisher publishes user lifecycle events. The service layer treats publish
// failures as non-fatal; they are logged and the request continues.
type Publisher interface {
	PublishUserRegistered(ctx context.Context, user *domain.User) error
	PublishUserUpdated(ctx context.Context, user *domain.User) error
	PublishUserDeleted(ctx context.Context, userID, email string) error
}

// UserData is the payload for user.registered and user.updated events.
type UserData struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// UserDeletedData is the payload for a user.deleted event.
type UserDeletedData struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Producer publishes user lifecycle events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new Kafka-backed event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	return p.publishUser(ctx, TopicUserRegistered, user)
}

// PublishUserUpdated publishes a user.updated event.
func (p *Producer) PublishUserUpdated(ctx context.Context, user *domain.User) error {
	return p.publishUser(ctx, TopicUserUpdated, user)
}

func (p *Producer) publishUser(ctx context.Context, topic string, user *domain.User) error {
	data := UserData{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}

	event, err := pkgkafka.NewEvent(topic, user.ID, AggregateTypeUser, SourcePortal, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published user event",
		slog.String("topic", topic),
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// PublishUserDeleted publishes a user.deleted event.
func (p *Producer) PublishUserDeleted(ctx context.Context, userID, email string) error {
	data := UserDeletedData{
		UserID: userID,
		Email:  email,
	}

	event, err := pkgkafka.NewEvent(TopicUserDeleted, userID, AggregateTypeUser, SourcePortal, data)
	if err != nil {
		return fmt.Errorf("create user.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserDeleted, event); err != nil {
		return fmt.Errorf("publish user.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.deleted event",
		slog.String("user_id", userID),
		slog.String("email", email),
	)

	return nil
}

// NopPublisher discards all events. It is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishUserRegistered(context.Context, *domain.User) error { return nil }
func (NopPublisher) PublishUserUpdated(context.Context, *domain.User) error    { return nil }
func (NopPublisher) PublishUserDeleted(context.Context, string, string) error  { return nil }
