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
	"github.com/rs/zerolog/log"

	"github.com/bem92/yoga-app/internal/config"
)

const maxBackoff = 30 * time.Second

// StartParticipationConsumer consumes participation events and appends one
// line per event to <LogDir>/participation.log.  It reconnects with
// exponential back-off and only returns once ctx is cancelled.
func StartParticipationConsumer(ctx context.Context, cfg config.BrokerConfig) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("participation-consumer: dial failed")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, cfg)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Msg("participation-consumer: consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg config.BrokerConfig) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn().Err(err).Msg("participation-consumer: set QoS failed")
	}
	if err := declareQueue(ch, cfg.Queue); err != nil {
		return err
	}

	msgs, err := ch.ConsumeWithContext(ctx, cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	log.Info().Str("queue", cfg.Queue).Msg("participation-consumer: consuming")
	for d := range msgs {
		if err := handleMessage(cfg.LogDir, d.Body); err != nil {
			log.Error().Err(err).Str("message_id", d.MessageId).Msg("participation-consumer: handle message failed")
			_ = d.Nack(false, false) // reject without requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(dir string, body []byte) error {
	var ev ParticipationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.SessionID == 0 || ev.UserID == 0 {
		return fmt.Errorf("incomplete event: %s", body)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "participation.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] session %s | session_id=%d | session=%q | user_id=%d | roster=%d\n",
		ev.OccurredAt.UTC().Format(time.RFC3339), ev.Action, ev.SessionID, ev.SessionName, ev.UserID, ev.Roster)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// sleep waits for d or until ctx is done and reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
