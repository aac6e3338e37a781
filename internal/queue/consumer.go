package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const auditFile = "catalog.log"

// Consumer listens on the movie.changed fanout exchange.  Every replica
// binds its own exclusive queue, so each one sees every event.
type Consumer struct {
	URL      string
	Exchange string
	LogDir   string // audit lines go to <LogDir>/catalog.log; empty disables
	Origin   string // events from this origin are not acted upon
	OnChange func(ctx context.Context, ev MovieChangedEvent)
	Log      logrus.FieldLogger
}

// Run connects to the broker and consumes until ctx is cancelled.  Broken
// connections are re-dialled with exponential backoff capped at 30s.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.WithError(err).Warnf("events-consumer: failed to dial broker; retrying in %s", backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Log.WithError(err).Warn("events-consumer: consume loop ended; reconnecting")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(c.Exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", c.Exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}
	msgs, err := ch.Consume(q.Name, "", false, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handleMessage(ctx, d.Body); err != nil {
				c.Log.WithError(err).Warn("events-consumer: handle message failed")
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, body []byte) error {
	var ev MovieChangedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Origin != c.Origin && c.OnChange != nil {
		c.OnChange(ctx, ev)
	}
	if c.LogDir == "" {
		return nil
	}
	return appendAudit(c.LogDir, ev)
}

func appendAudit(dir string, ev MovieChangedEvent) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, auditFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	user := ev.UserID
	if user == "" {
		user = "-"
	}
	line := fmt.Sprintf("[%s] Movie %s | name=%q | user_id=%s | origin=%s\n",
		ev.OccurredAt, ev.Action, ev.Name, user, ev.Origin)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
