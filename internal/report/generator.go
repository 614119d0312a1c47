package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Daniilmipt/Telegram-news-analyzer/internal/models"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// CleanTextPreview flattens a post text into a single line and truncates
// it for report and alert rendering.
func CleanTextPreview(text string, maxLength int) string {
	if text == "" {
		return ""
	}

	clean := strings.ReplaceAll(text, "\n", " ")
	clean = strings.ReplaceAll(clean, "\r", " ")
	clean = strings.TrimSpace(whitespacePattern.ReplaceAllString(clean, " "))

	if len(clean) > maxLength {
		return clean[:maxLength] + "..."
	}
	return clean
}

type Generator struct {
	outputDir string
}

func NewGenerator(outputDir string) *Generator {
	return &Generator{outputDir: outputDir}
}

type Result struct {
	OutputDir     string
	JSONPath      string
	HTMLPath      string
	PostsCount    int
	TotalMessages int
	TotalNegative int
}

type channelData struct {
	channelTitle  string
	totalMessages int
	negativePosts []models.NegativePostEntry
}

// GenerateMultichannelReport groups analyzed posts by channel, keeps the
// top maxPosts negative posts per channel sorted by negative score, and
// writes the JSON and HTML reports into a timestamped directory.
func (g *Generator) GenerateMultichannelReport(posts []models.AnalyzedPost, maxPosts int) (*Result, error) {
	slog.Info("[ReportGenerator] Generating multichannel negative posts report",
		slog.Int("posts", len(posts)),
		slog.Int("max_per_channel", maxPosts))

	channels := make(map[string]*channelData)
	totalMessages := 0
	totalNegative := 0

	for _, post := range posts {
		channel := post.Channel
		if channel == "" {
			channel = "@unknown"
		}

		data, ok := channels[channel]
		if !ok {
			title := post.ChannelTitle
			if title == "" {
				title = channel
			}
			data = &channelData{channelTitle: title}
			channels[channel] = data
		}

		data.totalMessages++
		totalMessages++

		if !post.IsNegative {
			continue
		}
		totalNegative++

		totalComments := len(post.Comments)
		negativeComments := 0
		for _, comment := range post.Comments {
			if comment.IsNegative {
				negativeComments++
			}
		}

		var negativePercentage float64
		if totalComments > 0 {
			negativePercentage = float64(negativeComments) / float64(totalComments) * 100
		}

		data.negativePosts = append(data.negativePosts, models.NegativePostEntry{
			ID:                        post.ID,
			Date:                      post.Date.Format("2006-01-02 15:04:05"),
			Text:                      post.Text,
			NegativeScore:             round(post.Sentiment.Negative, 4),
			TotalComments:             totalComments,
			NegativeComments:          negativeComments,
			NegativeCommentPercentage: round(negativePercentage, 2),
			Views:                     post.Views,
			Forwards:                  post.Forwards,
			Replies:                   post.Replies,
			Channel:                   channel,
			ChannelTitle:              data.channelTitle,
		})
	}

	for _, data := range channels {
		sort.SliceStable(data.negativePosts, func(i, j int) bool {
			return data.negativePosts[i].NegativeScore > data.negativePosts[j].NegativeScore
		})
		if len(data.negativePosts) > maxPosts {
			data.negativePosts = data.negativePosts[:maxPosts]
		}
	}

	now := time.Now()
	outputDir := filepath.Join(g.outputDir,
		fmt.Sprintf("multichannel_negative_posts_%s", now.Format("20060102_150405")))
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("[ReportGenerator] failed to create output directory: %w", err)
	}

	reportData := models.MultichannelReport{
		Metadata: models.ReportMetadata{
			ReportID:           uuid.NewString(),
			Timestamp:          now.Format(time.RFC3339),
			GeneratedAt:        now.Format("2006-01-02 15:04:05"),
			TotalChannels:      len(channels),
			TotalMessages:      totalMessages,
			TotalNegative:      totalNegative,
			NegativePercentage: round(percentage(totalNegative, totalMessages), 1),
		},
		Channels: make(map[string]models.ChannelReport, len(channels)),
	}

	for channel, data := range channels {
		reportData.Channels[channel] = models.ChannelReport{
			ChannelTitle:       data.channelTitle,
			TotalMessages:      data.totalMessages,
			NegativePostsCount: len(data.negativePosts),
			NegativePercentage: round(percentage(len(data.negativePosts), data.totalMessages), 1),
			NegativePosts:      data.negativePosts,
		}
	}

	jsonPath := filepath.Join(outputDir, "multichannel_negative_posts.json")
	if err := writeJSON(jsonPath, reportData); err != nil {
		return nil, err
	}

	htmlPath := filepath.Join(outputDir, "multichannel_negative_posts.html")
	if err := writeHTML(htmlPath, reportData); err != nil {
		return nil, err
	}

	slog.Info("[ReportGenerator] Report written",
		slog.String("output_dir", outputDir),
		slog.Int("negative_posts", totalNegative))

	return &Result{
		OutputDir:     outputDir,
		JSONPath:      jsonPath,
		HTMLPath:      htmlPath,
		PostsCount:    totalNegative,
		TotalMessages: totalMessages,
		TotalNegative: totalNegative,
	}, nil
}

func writeJSON(path string, reportData models.MultichannelReport) error {
	data, err := json.MarshalIndent(reportData, "", "  ")
	if err != nil {
		return fmt.Errorf("[ReportGenerator] failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("[ReportGenerator] failed to write JSON report: %w", err)
	}
	return nil
}

func writeHTML(path string, reportData models.MultichannelReport) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("[ReportGenerator] failed to create HTML report: %w", err)
	}
	defer file.Close()

	if err := reportTemplate.Execute(file, templateData(reportData)); err != nil {
		return fmt.Errorf("[ReportGenerator] failed to render HTML report: %w", err)
	}
	return nil
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func round(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

type htmlPost struct {
	models.NegativePostEntry
	Preview string
	Link    string
}

type htmlChannel struct {
	Channel string
	models.ChannelReport
	Posts []htmlPost
}

type htmlReport struct {
	Metadata models.ReportMetadata
	Channels []htmlChannel
}

func templateData(reportData models.MultichannelReport) htmlReport {
	channels := make([]htmlChannel, 0, len(reportData.Channels))
	for channel, channelReport := range reportData.Channels {
		posts := make([]htmlPost, 0, len(channelReport.NegativePosts))
		for _, post := range channelReport.NegativePosts {
			posts = append(posts, htmlPost{
				NegativePostEntry: post,
				Preview:           CleanTextPreview(post.Text, 200),
				Link:              PostLink(channel, post.ID),
			})
		}
		channels = append(channels, htmlChannel{
			Channel:       channel,
			ChannelReport: channelReport,
			Posts:         posts,
		})
	}

	sort.Slice(channels, func(i, j int) bool { return channels[i].Channel < channels[j].Channel })

	return htmlReport{Metadata: reportData.Metadata, Channels: channels}
}

// PostLink builds the public t.me link for a channel post.
func PostLink(channel string, postID int) string {
	return fmt.Sprintf("https://t.me/%s/%d", strings.TrimPrefix(channel, "@"), postID)
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Negative posts report</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; background-color: #f8f9fa; line-height: 1.6; }
.container { max-width: 1200px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
h1 { color: #dc3545; text-align: center; border-bottom: 3px solid #dc3545; padding-bottom: 10px; }
h2 { color: #343a40; margin-top: 30px; }
.stats { background-color: #f8f9fa; padding: 15px; border-radius: 5px; margin-bottom: 20px; text-align: center; }
.post { border: 1px solid #dee2e6; border-radius: 8px; margin-bottom: 20px; padding: 20px; }
.post-content { margin: 15px 0; padding: 15px; background-color: #f8f9fa; border-left: 4px solid #dc3545; }
.post-metrics { color: #6c757d; font-size: 0.9em; }
.post-link { color: #007bff; text-decoration: none; }
</style>
</head>
<body>
<div class="container">
<h1>Negative posts report</h1>
<div class="stats">
Generated at {{.Metadata.GeneratedAt}} &middot;
Channels: {{.Metadata.TotalChannels}} &middot;
Messages: {{.Metadata.TotalMessages}} &middot;
Negative: {{.Metadata.TotalNegative}} ({{.Metadata.NegativePercentage}}%)
</div>
{{range .Channels}}
<h2>{{.ChannelTitle}} ({{.Channel}})</h2>
<div class="stats">
Messages: {{.TotalMessages}} &middot; Negative posts: {{.NegativePostsCount}} ({{.NegativePercentage}}%)
</div>
{{range .Posts}}
<div class="post">
<div><strong>Post {{.ID}}</strong> &middot; {{.Date}} &middot; <a class="post-link" href="{{.Link}}">Open in Telegram</a></div>
<div class="post-content">{{.Preview}}</div>
<div class="post-metrics">
Negative score: {{.NegativeScore}} &middot;
Comments: {{.NegativeComments}}/{{.TotalComments}} ({{.NegativeCommentPercentage}}% negative) &middot;
Views: {{.Views}} &middot; Forwards: {{.Forwards}}
</div>
</div>
{{end}}
{{end}}
</div>
</body>
</html>
`))
