package output

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"jobscout/internal/scraper"
)

//Telegram caps messages at 4096 chars; leave headroom for the header
const chunkLimit = 3800

// TelegramWriter sends jobs to a Telegram chat via the Bot API.
type TelegramWriter struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramWriter(token string, chatID int64) (*TelegramWriter, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &TelegramWriter{api: api, chatID: chatID}, nil
}

func (tw *TelegramWriter) WriteJobs(jobs []scraper.Enriched) error {
	if len(jobs) == 0 {
		return tw.send("No new jobs found\\.")
	}
	for _, chunk := range buildChunks(jobs) {
		if err := tw.send(chunk); err != nil {
			return err
		}
	}
	return nil
}

// buildChunks renders jobs into MarkdownV2 messages under the size cap.
func buildChunks(jobs []scraper.Enriched) []string {
	var chunks []string
	var current strings.Builder
	current.WriteString(fmt.Sprintf("*Found %d listing\\(s\\):*\n\n", len(jobs)))

	for i, j := range jobs {
		entry := formatJob(i+1, j)
		if current.Len()+len(entry) > chunkLimit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(entry)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func formatJob(n int, j scraper.Enriched) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%d\\. %s*\n", n, escapeMarkdown(j.Title))
	fmt.Fprintf(&b, "🏢 %s\n", escapeMarkdown(j.Company))
	fmt.Fprintf(&b, "📍 %s\n", escapeMarkdown(j.Location))
	if j.PayRange != "" {
		fmt.Fprintf(&b, "💰 %s\n", escapeMarkdown(j.PayRange))
	}
	if j.EmploymentType != "" {
		fmt.Fprintf(&b, "📋 %s\n", escapeMarkdown(string(j.EmploymentType)))
	}
	if j.RemoteStatus != "" {
		fmt.Fprintf(&b, "🏠 %s\n", escapeMarkdown(string(j.RemoteStatus)))
	}
	if j.PostedDate != "" {
		fmt.Fprintf(&b, "📅 %s\n", escapeMarkdown(j.PostedDate))
	}
	if j.URL != "" {
		fmt.Fprintf(&b, "[View job](%s)\n", j.URL)
	}
	b.WriteString("\n")
	return b.String()
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(s)
}

func (tw *TelegramWriter) send(text string) error {
	msg := tgbotapi.NewMessage(tw.chatID, text)
	msg.ParseMode = "MarkdownV2"
	if _, err := tw.api.Send(msg); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	return nil
}
