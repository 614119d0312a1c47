package kafka_client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/Daniilmipt/Telegram-news-analyzer/internal/models"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/utils"
)

var producer *kafka.Producer

func InitProducer(cfg KafkaConfig) error {
	slog.Info("[KafkaClient] Initializing Kafka Producer...")

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     cfg.Broker,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
		"transactional.id":                      cfg.TransactionID,
	})
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to create producer: %w", err)
	}

	if err := p.InitTransactions(context.Background()); err != nil {
		return fmt.Errorf("[KafkaClient] failed to init transactions: %w", err)
	}

	producer = p
	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return nil
}

func CloseProducer() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if producer != nil {
		if remaining := producer.Flush(5000); remaining > 0 {
			slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
				slog.Int("remaining", remaining))
		}
		producer.Close()
		slog.Info("[KafkaClient] Kafka producer shut down")
	}
}

// PublishAnalyzedPosts publishes a pipeline run's annotated posts as one
// transactional batch keyed by channel.
func PublishAnalyzedPosts(posts []models.AnalyzedPost) error {
	return publishTransactional(KAFKA_TOPIC_ANALYZED_POSTS, posts)
}

// PublishNegativeAlerts publishes newly detected negative posts for the
// monitoring consumers.
func PublishNegativeAlerts(posts []models.AnalyzedPost) error {
	return publishTransactional(KAFKA_TOPIC_NEGATIVE_ALERT, posts)
}

func publishTransactional(topic string, posts []models.AnalyzedPost) error {
	if producer == nil {
		return fmt.Errorf("[KafkaClient] producer is not initialized")
	}
	if len(posts) == 0 {
		return nil
	}

	if err := producer.BeginTransaction(); err != nil {
		return fmt.Errorf("[KafkaClient] failed to begin transaction: %w", err)
	}

	for _, post := range posts {
		jsonData, err := utils.SerializeToJSON(post)
		if err != nil {
			return abortTransaction(err)
		}

		msg := &kafka.Message{
			TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
			Key:            []byte(fmt.Sprintf("%s/%d", post.Channel, post.ID)),
			Value:          jsonData,
		}

		for i := 0; i < MAX_RETRIES; i++ {
			err = producer.Produce(msg, nil)
			if err == nil {
				break
			}
			slog.Warn("[KafkaClient] Failed to produce message, retrying...",
				slog.Int("attempt", i+1))
			time.Sleep(RETRY_DELAY)
		}
		if err != nil {
			return abortTransaction(err)
		}
	}

	var commitErr error
	for i := 0; i < MAX_RETRIES; i++ {
		commitErr = producer.CommitTransaction(context.Background())
		if commitErr == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to commit transaction, retrying...",
			slog.Int("attempt", i+1))
	}
	if commitErr != nil {
		return fmt.Errorf("[KafkaClient] failed to commit transaction after %d retries: %w", MAX_RETRIES, commitErr)
	}

	slog.Info("[KafkaClient] Published posts to Kafka transactionally",
		slog.String("topic", topic),
		slog.Int("posts", len(posts)))

	return nil
}

func abortTransaction(cause error) error {
	if abortErr := producer.AbortTransaction(context.Background()); abortErr != nil {
		return fmt.Errorf("[KafkaClient] failed to abort transaction after %v: %w", cause, abortErr)
	}
	return cause
}
