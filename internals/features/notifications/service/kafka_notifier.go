package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaNotifier(producer sarama.SyncProducer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

// NewSyncProducer mencoba konek beberapa kali karena broker sering naik belakangan.
func NewSyncProducer(brokers []string, attempts int) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Timeout = 5 * time.Second
	config.Net.DialTimeout = 5 * time.Second

	var (
		producer sarama.SyncProducer
		err      error
	)
	for i := 1; i <= attempts; i++ {
		producer, err = sarama.NewSyncProducer(brokers, config)
		if err == nil {
			log.Printf("[NOTIFY] kafka producer ready brokers=%v", brokers)
			return producer, nil
		}
		log.Printf("[NOTIFY] waiting for kafka... (%d/%d) error: %v", i, attempts, err)
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("kafka producer: %w", err)
}

func (k *KafkaNotifier) Dispatch(ctx context.Context, n Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(n)
	if err != nil {
		log.Printf("[NOTIFY] marshal %s failed: %v", n.Kind, err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(n.Recipient.TenantID.String()),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("kind"), Value: []byte(n.Kind)},
		},
	}
	if _, _, err := k.producer.SendMessage(msg); err != nil {
		log.Printf("[NOTIFY] publish %s payment=%s failed: %v", n.Kind, n.Payment.PaymentID, err)
		return
	}
	log.Printf("📤 [NOTIFY] published %s payment=%s", n.Kind, n.Payment.PaymentID)
}

func (k *KafkaNotifier) Close() error {
	return k.producer.Close()
}
