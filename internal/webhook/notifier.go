// Package webhook contains utility code used to log generated triggers to a
// Discord channel using a webhook URL
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TriggerLog describes a trigger generation event to be posted to Discord
type TriggerLog struct {
	Username string
	UserId   string
	CityName string
	Code     string
	Event1   string
	Event2   string
}

// Notifier posts trigger logs to a fixed Discord webhook URL
type Notifier interface {
	PostTriggerLog(ctx context.Context, entry TriggerLog) error
}

func NewNotifier(webhookUrl string) Notifier {
	return &notifier{
		webhookUrl: webhookUrl,
		now:        time.Now,
	}
}

type notifier struct {
	webhookUrl string
	now        func() time.Time
}

// PostTriggerLog makes an HTTP request to the Discord webhook in order to
// post an embed describing the trigger that was just generated and who
// generated it
func (n *notifier) PostTriggerLog(ctx context.Context, entry TriggerLog) error {
	cityName := entry.CityName
	if cityName == "" {
		cityName = "N/A"
	}
	payload := discordWebhookPayload{
		Embeds: []discordEmbed{
			{
				Title: "⚡ New Trigger Generated",
				Color: 0xFFFFFF,
				Fields: []discordEmbedField{
					{Name: "👤 User", Value: fmt.Sprintf("`%s` (ID: %s)", entry.Username, entry.UserId), Inline: true},
					{Name: "🏙️ City", Value: fmt.Sprintf("`%s`", cityName), Inline: true},
					{Name: "🔗 Event 1", Value: fmt.Sprintf("`%s`", entry.Event1), Inline: false},
					{Name: "⚙️ Event 2", Value: fmt.Sprintf("`%s`", entry.Event2), Inline: false},
				},
				Description: fmt.Sprintf("**Generated code:**\n```lua\n%s\n```", entry.Code),
				Timestamp:   n.now().UTC().Format(time.RFC3339),
				Footer:      discordEmbedFooter{Text: "Zero Network Logging System"},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookUrl, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		suffix := ""
		if resBody, err := io.ReadAll(res.Body); err == nil {
			suffix = fmt.Sprintf(": %s", resBody)
		}
		return fmt.Errorf("got %d response from Discord webhook%s", res.StatusCode, suffix)
	}
	return nil
}

var _ Notifier = (*notifier)(nil)

type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Color       int                 `json:"color"`
	Fields      []discordEmbedField `json:"fields"`
	Description string              `json:"description"`
	Timestamp   string              `json:"timestamp"`
	Footer      discordEmbedFooter  `json:"footer"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordEmbedFooter struct {
	Text string `json:"text"`
}
