package models

type ReportMetadata struct {
	ReportID           string  `json:"report_id"`
	Timestamp          string  `json:"timestamp"`
	GeneratedAt        string  `json:"generated_at"`
	TotalChannels      int     `json:"total_channels"`
	TotalMessages      int     `json:"total_messages"`
	TotalNegative      int     `json:"total_negative"`
	NegativePercentage float64 `json:"negative_percentage"`
}

type NegativePostEntry struct {
	ID                        int     `json:"id"`
	Date                      string  `json:"date"`
	Text                      string  `json:"text"`
	NegativeScore             float64 `json:"negative_score"`
	TotalComments             int     `json:"total_comments"`
	NegativeComments          int     `json:"negative_comments"`
	NegativeCommentPercentage float64 `json:"negative_comment_percentage"`
	Views                     int     `json:"views"`
	Forwards                  int     `json:"forwards"`
	Replies                   int     `json:"replies"`
	Channel                   string  `json:"channel"`
	ChannelTitle              string  `json:"channel_title"`
}

type ChannelReport struct {
	ChannelTitle       string              `json:"channel_title"`
	TotalMessages      int                 `json:"total_messages"`
	NegativePostsCount int                 `json:"negative_posts_count"`
	NegativePercentage float64             `json:"negative_percentage"`
	NegativePosts      []NegativePostEntry `json:"negative_posts"`
}

type MultichannelReport struct {
	Metadata ReportMetadata           `json:"metadata"`
	Channels map[string]ChannelReport `json:"channels"`
}
