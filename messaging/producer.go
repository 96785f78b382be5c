package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"weather-dashboard/models"

	"github.com/twmb/franz-go/pkg/kgo"
)

// recordProducer is the part of *kgo.Client the producer uses
type recordProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// Producer publishes computed forecast reports to a Kafka topic
type Producer struct {
	topic   string
	client  recordProducer
	timeout time.Duration
}

// NewProducer creates a producer for topic on the given brokers
func NewProducer(brokers []string, topic string) (*Producer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Printf("Kafka producer initialized for topic: %s", topic)
	return newProducer(client, topic), nil
}

func newProducer(client recordProducer, topic string) *Producer {
	return &Producer{topic: topic, client: client, timeout: 10 * time.Second}
}

// ReportKey is the record key for a report, e.g. "forecast:lisbon,pt:month"
func ReportKey(report models.ForecastReport) string {
	return fmt.Sprintf("forecast:%s:%s", strings.ToLower(strings.TrimSpace(report.Location)), report.View)
}

// PublishForecast sends report as JSON and waits for the broker acknowledgement
func (p *Producer) PublishForecast(ctx context.Context, report models.ForecastReport) error {
	value, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(ReportKey(report)),
		Value: value,
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	results := p.client.ProduceSync(ctx, record)
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("kafka publish to %s failed: %w", p.topic, r.Err)
		}
	}

	log.Printf("Published to %s: key=%s", p.topic, record.Key)
	return nil
}

// Close flushes and closes the underlying client
func (p *Producer) Close() {
	p.client.Close()
}
