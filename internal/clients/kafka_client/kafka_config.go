package kafka_client

import "os"

type KafkaConfig struct {
	Broker        string
	TransactionID string
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func GetKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Broker:        getEnv("KAFKA_BROKER", "localhost:29092"),
		TransactionID: getEnv("KAFKA_TRANSACTIONAL_ID", "telegram-news-analyzer-producer-1"),
	}
}
