package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	q "github.com/iliyamo/movie-console/internal/queue"
)

// EventPublisher announces catalog mutations to other replicas.
type EventPublisher interface {
	PublishMovieChanged(ctx context.Context, ev q.MovieChangedEvent) error
}

// AMQPPublisher publishes to a durable fanout exchange, dialling once per
// event.  Errors are logged and returned.
type AMQPPublisher struct {
	URL      string
	Exchange string
	Log      logrus.FieldLogger
}

func (p *AMQPPublisher) PublishMovieChanged(ctx context.Context, event q.MovieChangedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.Log.WithError(err).Warn("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.WithError(err).Warn("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so the exchange survives broker restarts.
	if err := ch.ExchangeDeclare(
		p.Exchange,          // name
		amqp.ExchangeFanout, // kind
		true,                // durable
		false,               // autoDelete
		false,               // internal
		false,               // noWait
		nil,                 // args
	); err != nil {
		p.Log.WithError(err).Warn("rabbitmq: exchange declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.Log.WithError(err).Warn("rabbitmq: marshal event failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, p.Exchange, "", false, false, pub); err != nil {
		p.Log.WithError(err).Warn("rabbitmq: publish failed")
		return err
	}
	return nil
}

// nopPublisher is used when events are disabled.
type nopPublisher struct{}

func (nopPublisher) PublishMovieChanged(context.Context, q.MovieChangedEvent) error { return nil }
