// Package publish streams newly found primes to Kafka.
package publish

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"primenum/pkg/platform/sentinel"
)

// DefaultTopic receives one record per prime.
const DefaultTopic = "primenum.primes"

// Publisher produces found primes synchronously so that a broker failure
// halts the sieve run that produced them.
type Publisher struct {
	client *kgo.Client
	topic  string
}

// New connects a producer to brokers. The client is owned by the Publisher.
func New(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one kafka broker is required")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Publisher{client: client, topic: topic}, nil
}

// EnsureTopic creates the topic when it does not exist yet.
func (p *Publisher) EnsureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopics(ctx, partitions, replicationFactor, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Publish produces value keyed by the sieve run that found it.
func (p *Publisher) Publish(ctx context.Context, runID string, value uint64) error {
	record := &kgo.Record{
		Key:   []byte(runID),
		Value: []byte(strconv.FormatUint(value, 10)),
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("publish prime %d: %v: %w", value, err, sentinel.ErrStorageExhausted)
	}
	return nil
}

// Topic returns the topic records are produced to.
func (p *Publisher) Topic() string {
	return p.topic
}

// Close flushes and closes the underlying client.
func (p *Publisher) Close() {
	p.client.Close()
}
