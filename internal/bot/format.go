package bot

import (
	"fmt"
	"strings"

	"github.com/Daniilmipt/Telegram-news-analyzer/internal/models"
	"github.com/Daniilmipt/Telegram-news-analyzer/internal/report"
)

// telegramMessageLimit is Telegram's hard cap on message length.
const telegramMessageLimit = 4096

// formatAlert renders the text of a negative-post alert message.
func formatAlert(post models.AnalyzedPost) string {
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

	preview := report.CleanTextPreview(post.Text, 300)

	var b strings.Builder
	b.WriteString("🚨 *New negative post*\n\n")
	fmt.Fprintf(&b, "Post %d in %s\n", post.ID, post.Channel)
	fmt.Fprintf(&b, "📅 %s\n", post.Date.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "📊 Negative score: %.3f\n", post.Sentiment.Negative)
	fmt.Fprintf(&b, "💬 Comments: %d/%d (%.1f%% negative)\n", negativeComments, totalComments, negativePercentage)
	fmt.Fprintf(&b, "👀 Views: %d | ↗️ Forwards: %d\n\n", post.Views, post.Forwards)
	fmt.Fprintf(&b, "📄 %s", escapeMarkdown(preview))

	return b.String()
}

func formatStatus(channels []string, negativeThreshold float64, monitoring bool) string {
	channelLines := make([]string, 0, len(channels))
	for _, channel := range channels {
		channelLines = append(channelLines, fmt.Sprintf("  • `%s`", channel))
	}

	state := "⏹️ Inactive"
	if monitoring {
		state = "🔄 Active"
	}

	return fmt.Sprintf("📊 *Bot status*\n\n"+
		"*Configuration:*\n"+
		"• Channels:\n%s\n"+
		"• Negative threshold: %.0f%%\n\n"+
		"*Monitoring:* %s",
		strings.Join(channelLines, "\n"), negativeThreshold*100, state)
}

const helpText = "🤖 *Negative posts analyzer*\n\n" +
	"*Commands:*\n" +
	"/analyze — analyze recent posts and build a report\n" +
	"/monitor — start continuous monitoring with alerts\n" +
	"/stop — stop monitoring\n" +
	"/status — show configuration and monitoring state\n" +
	"/help — this message"

// splitMessage cuts a long message into chunks below Telegram's limit,
// preferring line boundaries.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	for _, line := range strings.Split(text, "\n") {
		// A single oversized line is cut mid-line.
		for len(line) > limit {
			if current.Len() > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
			}
			chunks = append(chunks, line[:limit])
			line = line[limit:]
		}

		if current.Len()+len(line)+1 > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

var markdownEscaper = strings.NewReplacer(
	"*", "\\*",
	"_", "\\_",
	"[", "\\[",
	"]", "\\]",
	"`", "\\`",
)

func escapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}
