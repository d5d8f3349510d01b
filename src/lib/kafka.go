package lib

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

var kafkaProducer *kafka.Producer

func GetKafkaProducer() (*kafka.Producer, error) {
	if kafkaProducer != nil {
		return kafkaProducer, nil
	}
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"client.id":         "gsc-api",
		"acks":              "all",
	})
	if err != nil {
		log.Printf("Error on producer: %s\n", err.Error())
		return nil, err
	}
	kafkaProducer = p
	return p, nil
}

func KafkaProduce(topic string, key string, value []byte) error {
	p, err := GetKafkaProducer()
	if err != nil {
		return err
	}
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          value,
	}
	if key != "" {
		msg.Key = []byte(key)
	}
	return p.Produce(msg, nil)
}

// KafkaConsume polls a topic in the background and hands each value to the
// handler until the context is done.
func KafkaConsume(ctx context.Context, groupId string, topic string, handler func(payload string)) error {
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"group.id":          groupId,
		"auto.offset.reset": "smallest",
		"retry.backoff.ms":  100,
	})
	if err != nil {
		log.Printf("Error on consumer: %s\n", err.Error())
		return err
	}
	if err := consumer.SubscribeTopics([]string{topic}, nil); err != nil {
		log.Printf("Error subscribing to %s: %s\n", topic, err.Error())
		consumer.Close()
		return err
	}
	go func() {
		defer consumer.Close()
		log.Printf("[%s] waiting for messages...\n", topic)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			switch e := consumer.Poll(100).(type) {
			case *kafka.Message:
				handler(string(e.Value))
			case kafka.Error:
				log.Printf("[%s] kafka error: %v\n", topic, e)
				if e.IsFatal() {
					return
				}
			}
		}
	}()
	return nil
}

func KafkaCreateTopics(topics ...string) ([]kafka.TopicResult, error) {
	a, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
	})
	if err != nil {
		log.Printf("Error on AdminClient: %s\n", err.Error())
		return nil, err
	}
	defer a.Close()
	topicsDef := []kafka.TopicSpecification{}
	for _, topic := range topics {
		topicsDef = append(topicsDef, kafka.TopicSpecification{
			Topic:         topic,
			NumPartitions: 3,
		})
	}
	result, err := a.CreateTopics(context.Background(), topicsDef)
	if err != nil {
		log.Printf("Error creating topics: %s\n", err.Error())
		return nil, err
	}
	return result, nil
}

// KafkaPublisher writes notifications to the lifecycle topic keyed by channel.
type KafkaPublisher struct {
	Topic string
}

func (k *KafkaPublisher) Name() string {
	return "kafka"
}

func (k *KafkaPublisher) Publish(ctx context.Context, channel string, event string, payload []byte) error {
	value, err := json.Marshal(map[string]any{
		"channel": channel,
		"event":   event,
		"data":    json.RawMessage(payload),
	})
	if err != nil {
		return err
	}
	return KafkaProduce(k.Topic, channel, value)
}
