package queue

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/emrgen/page/internal/model"
	"github.com/sirupsen/logrus"
)

var ErrQueueClosed = errors.New("queue is closed")

var _ PageLogQueue = (*KafkaPageLogQueue)(nil)

// KafkaPageLogQueue publishes page log entries to a kafka topic, keyed by page id
// so entries of one page stay ordered within a partition.
type KafkaPageLogQueue struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaPageLogQueue(brokers, topic string) (*KafkaPageLogQueue, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
	})
	if err != nil {
		return nil, err
	}

	if topic == "" {
		topic = PageLogTopic
	}

	return &KafkaPageLogQueue{producer: producer, topic: topic}, nil
}

// Publish waits for the broker to acknowledge the entry.
func (q *KafkaPageLogQueue) Publish(ctx context.Context, log *model.PageLog) error {
	value, err := json.Marshal(log)
	if err != nil {
		return err
	}

	delivery := make(chan kafka.Event, 1)
	err = q.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &q.topic, Partition: kafka.PartitionAny},
		Key:            []byte(log.PageID),
		Value:          value,
		Headers: []kafka.Header{
			{Key: "entity_name", Value: []byte(log.EntityName)},
			{Key: "transaction", Value: []byte(log.Transaction)},
		},
	}, delivery)
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-delivery:
		m, ok := e.(*kafka.Message)
		if !ok {
			return errors.New("unexpected kafka delivery event")
		}
		if m.TopicPartition.Error != nil {
			return m.TopicPartition.Error
		}
		logrus.Debugf("published page log %s to %s[%d]@%v", log.ID, q.topic, m.TopicPartition.Partition, m.TopicPartition.Offset)
		return nil
	}
}

func (q *KafkaPageLogQueue) Close() error {
	if remaining := q.producer.Flush(5000); remaining > 0 {
		logrus.Warnf("closing page log producer with %d undelivered messages", remaining)
	}
	q.producer.Close()

	return nil
}
