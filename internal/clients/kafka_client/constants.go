package kafka_client

import "time"

const (
	KAFKA_TOPIC_ANALYZED_POSTS = "analyzed-posts"       // every post annotated by a pipeline run
	KAFKA_TOPIC_NEGATIVE_ALERT = "negative-post-alerts" // posts that crossed the negative threshold
)

const (
	MAX_RETRIES = 3
	RETRY_DELAY = 2 * time.Second
)
