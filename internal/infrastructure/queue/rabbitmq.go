// Package queue publica eventos de lotes en RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/crm-inmobiliario/internal/application/lotes"
)

// RoutingKeyStatusChanged routing key de los cambios de estado.
const RoutingKeyStatusChanged = "lote.status_changed"

var _ lotes.EventPublisher = (*Publisher)(nil)

// Publisher conexión y canal dedicados a publicar en un exchange topic durable.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	mu       sync.Mutex
}

// NewPublisher conecta, abre un canal y declara el exchange.
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("conectar a RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("abrir canal: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declarar exchange %s: %w", exchange, err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// PublishStatusChanged publica el evento como JSON persistente.
func (p *Publisher) PublishStatusChanged(ctx context.Context, ev lotes.StatusChangedEvent) error {
	msg, err := statusChangedMessage(ev)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, p.exchange, RoutingKeyStatusChanged, false, false, msg); err != nil {
		return fmt.Errorf("publicar %s: %w", RoutingKeyStatusChanged, err)
	}
	return nil
}

func statusChangedMessage(ev lotes.StatusChangedEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("serializar evento: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         RoutingKeyStatusChanged,
		MessageId:    ev.LoteID + ":" + ev.OccurredAt.UTC().Format(time.RFC3339Nano),
		Timestamp:    ev.OccurredAt,
		Body:         body,
	}, nil
}

// Close cierra canal y conexión.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}
