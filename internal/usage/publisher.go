package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mohamedhussein2626/backend-part/internal/models"
)

// Event is the message body published for every recorded usage.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ToolName  string    `json:"toolName"`
	ToolType  string    `json:"toolType"`
	Endpoint  string    `json:"endpoint"`
	CreatedAt time.Time `json:"createdAt"`
}

func newEvent(ev models.ToolUsage) Event {
	return Event{
		ID:        ev.ID,
		UserID:    ev.UserID,
		ToolName:  ev.ToolName,
		ToolType:  string(ev.ToolType),
		Endpoint:  ev.Endpoint,
		CreatedAt: ev.CreatedAt,
	}
}

// AMQPPublisher publishes usage events to a durable RabbitMQ queue. A
// connection is opened per message, so a broker outage only costs the
// events sent while it lasts.
type AMQPPublisher struct {
	url   string
	queue string
	dial  func(url string, cfg amqp.Config) (*amqp.Connection, error)
}

// defaultDialTimeout matches amqp.Dial and applies when ctx has no deadline.
const defaultDialTimeout = 30 * time.Second

func NewAMQPPublisher(url, queue string) *AMQPPublisher {
	return &AMQPPublisher{url: url, queue: queue, dial: amqp.DialConfig}
}

// dialTimeout is the time left before ctx expires, capped at the amqp
// default.
func dialTimeout(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return defaultDialTimeout
	}
	return min(time.Until(deadline), defaultDialTimeout)
}

// Publish sends ev as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, ev models.ToolUsage) error {
	body, err := json.Marshal(newEvent(ev))
	if err != nil {
		return fmt.Errorf("marshal usage event: %w", err)
	}

	timeout := dialTimeout(ctx)
	if err := ctx.Err(); err != nil || timeout <= 0 {
		return fmt.Errorf("rabbitmq dial: %w", context.DeadlineExceeded)
	}
	conn, err := p.dial(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    ev.ID,
		Type:         "tool.usage",
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}
