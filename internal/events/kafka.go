package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/yanun0323/logs"

	"main/internal/model"
	"main/internal/obs"
)

// DefaultTopic is the trade event stream topic.
const DefaultTopic = "portfolio-events"

// DefaultQuoteTopic is the market quote stream topic.
const DefaultQuoteTopic = "market-quotes"

// StreamReader is the read side of one stream topic.
type StreamReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// KafkaPublisher writes trade events to a Kafka topic.
type KafkaPublisher struct {
	writer  *kafka.Writer
	metrics *obs.Metrics
}

// NewKafkaPublisher creates an asynchronous writer for the given
// brokers and topic. Writes never block the caller.
func NewKafkaPublisher(brokers []string, topic string, metrics *obs.Metrics) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are empty")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
			Async:    true,
		},
		metrics: metrics,
	}, nil
}

// Publish encodes the event and hands it to the async writer.
func (p *KafkaPublisher) Publish(event model.TradeEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.metrics.IncEventDrop()
		logs.Errorf("encode trade event: %v", err)
		return
	}
	msg := kafka.Message{
		Key:   []byte(event.Quote.Name),
		Value: payload,
	}
	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		p.metrics.IncEventDrop()
		logs.Errorf("publish trade event: %v", err)
	}
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// KafkaQuotePublisher writes quote ticks to a Kafka topic so remote
// consumers can follow the market.
type KafkaQuotePublisher struct {
	writer *kafka.Writer
}

// NewKafkaQuotePublisher creates an asynchronous writer for the quote
// stream.
func NewKafkaQuotePublisher(brokers []string, topic string) (*KafkaQuotePublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are empty")
	}
	if topic == "" {
		topic = DefaultQuoteTopic
	}
	return &KafkaQuotePublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
			Async:    true,
		},
	}, nil
}

// Publish encodes the quote and hands it to the async writer.
func (p *KafkaQuotePublisher) Publish(quote model.Quote) {
	payload, err := json.Marshal(quote)
	if err != nil {
		logs.Errorf("encode quote: %v", err)
		return
	}
	msg := kafka.Message{
		Key:   []byte(quote.Name),
		Value: payload,
	}
	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		logs.Errorf("publish quote: %v", err)
	}
}

// Close flushes and closes the underlying writer.
func (p *KafkaQuotePublisher) Close() error {
	return p.writer.Close()
}

// NewKafkaReader creates a consumer-group reader on the given stream
// topic.
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	if topic == "" {
		topic = DefaultTopic
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
}
