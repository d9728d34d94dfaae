// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/danielhkuo/quickly-vote/metrics"
)

type KafkaPublisher struct {
	writer  *kafka.Writer
	metrics *metrics.Metrics
}

/*
Messages are keyed by election id and hashed onto partitions, so events for
one election stay ordered.

The writer is asynchronous: Publish only enqueues, and delivery results are
reported through Completion. A ballot is already committed by the time its
event is published, so a broker outage must never slow down or fail a cast.
*/
func NewKafkaPublisher(brokers []string, topic string, m *metrics.Metrics) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one kafka broker is required")
	}
	if topic == "" {
		return nil, errors.New("kafka topic is required")
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		MaxAttempts:            5,
		Compression:            kafka.Snappy,
		Async:                  true,
		AllowAutoTopicCreation: true,
	}
	w.Completion = func(messages []kafka.Message, err error) {
		for _, msg := range messages {
			eventType := headerValue(msg, "event_type")
			m.ObserveEvent(eventType, err)
			if err != nil {
				slog.Error("failed to deliver event",
					"error", err,
					"topic", topic,
					"event_type", eventType,
					"election_id", string(msg.Key),
				)
			}
		}
	}

	return &KafkaPublisher{writer: w, metrics: m}, nil
}

func (kp *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.ElectionID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := kp.writer.WriteMessages(ctx, msg); err != nil {
		kp.metrics.ObserveEvent(event.Type, err)
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close flushes pending messages and releases the writer
func (kp *KafkaPublisher) Close() error {
	if err := kp.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	return nil
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
