// Package publish fans metadata records out to Kafka for downstream
// ingestion services. Publishing is optional and env-gated.
package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"ecbpress/config"
	"ecbpress/types"

	"github.com/IBM/sarama"
)

const defaultTopic = "ecb.publications"

// Producer publishes metadata records to a Kafka topic, keyed by a hash of
// the source URL so repeats of the same publication land on one partition.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// FromEnv builds a Producer from KAFKA_BROKERS (comma-separated) and
// KAFKA_TOPIC, or returns nil when no brokers are configured.
func FromEnv() (*Producer, error) {
	brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))
	if brokers == "" {
		return nil, nil
	}
	topic := config.GetEnvOrDefault("KAFKA_TOPIC", defaultTopic)
	return NewProducer(strings.Split(brokers, ","), topic)
}

// NewProducer connects a synchronous producer to the given brokers.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_6_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect kafka producer: %w", err)
	}
	return &Producer{producer: producer, topic: topic}, nil
}

// PublishRecord sends one metadata record.
func (p *Producer) PublishRecord(record types.MetadataRecord) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(types.GenerateID(record.SourceURI)),
		Value: sarama.ByteEncoder(value),
	})
	return err
}

// Close shuts the producer down.
func (p *Producer) Close() error {
	return p.producer.Close()
}
