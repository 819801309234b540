package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// StartAuditConsumer connects to RabbitMQ, declares the durable
// audit.events queue and appends each event to logs/audit.log as one line.
// It runs a reconnect loop with capped backoff and is meant to be launched
// in its own goroutine; a broker that never comes up just keeps the loop
// retrying while the server operates normally.
func StartAuditConsumer() {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("audit-consumer: broker dial failed")
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Warn().Err(err).Msg("audit-consumer: consume loop ended, reconnecting")
		}
		_ = conn.Close()
		time.Sleep(2 * time.Second)
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(auditQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(auditQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for msg := range msgs {
		if err := appendAuditLine(msg.Body); err != nil {
			log.Warn().Err(err).Msg("audit-consumer: write failed")
			_ = msg.Nack(false, true)
			continue
		}
		_ = msg.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

// appendAuditLine writes one human-readable line per event to
// logs/audit.log, creating the directory on first use.
func appendAuditLine(body []byte) error {
	var ev AuditEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		// Unparseable payloads are logged raw rather than lost.
		log.Warn().Str("payload", string(body)).Msg("audit-consumer: malformed event")
		return nil
	}

	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join("logs", "audit.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	line := fmt.Sprintf("%s type=%s user=%d", ev.At.Format(time.RFC3339), ev.Type, ev.UserID)
	if ev.Email != "" {
		line += " email=" + ev.Email
	}
	if ev.TaskID != 0 {
		line += fmt.Sprintf(" task=%d", ev.TaskID)
	}
	_, err = f.WriteString(line + "\n")
	return err
}
