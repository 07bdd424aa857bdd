// Package telegram implements core.Transport against the Telegram
// Bot API: getUpdates long polling for inbound messages, sendMessage
// for replies.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jdelaire/runbot/core"
)

const (
	defaultBaseURL  = "https://api.telegram.org"
	longPollTimeout = 15
	httpTimeout     = 20 * time.Second // must outlast the long poll
)

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

type update struct {
	UpdateID      int64    `json:"update_id"`
	Message       *message `json:"message"`
	EditedMessage *message `json:"edited_message"`
}

type message struct {
	From *user  `json:"from"`
	Chat chat   `json:"chat"`
	Text string `json:"text"`
}

type user struct {
	ID int64 `json:"id"`
}

type chat struct {
	ID int64 `json:"id"`
}

// Client talks to the Telegram Bot API for one bot token.
type Client struct {
	botToken string
	client   *http.Client
	baseURL  string
}

// New creates a Telegram client.
func New(botToken string) *Client {
	return &Client{
		botToken: botToken,
		client:   &http.Client{Timeout: httpTimeout},
		baseURL:  defaultBaseURL,
	}
}

// WithBaseURL overrides the Telegram API base URL (for testing).
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// FetchBatch long-polls getUpdates for updates at or after cursor.
// Every update comes back as a message — non-text and envelope-less
// ones with an empty Text — so the caller's cursor advances past all
// of them.
func (c *Client) FetchBatch(ctx context.Context, cursor int64) ([]core.InboundMessage, error) {
	endpoint := fmt.Sprintf("%s/bot%s/getUpdates?timeout=%d", c.baseURL, c.botToken, longPollTimeout)
	if cursor > 0 {
		endpoint += fmt.Sprintf("&offset=%d", cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api status: %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !apiResp.OK {
		return nil, fmt.Errorf("api returned ok=false: %s", apiResp.Description)
	}

	var updates []update
	if err := json.Unmarshal(apiResp.Result, &updates); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}

	msgs := make([]core.InboundMessage, 0, len(updates))
	for _, u := range updates {
		m := core.InboundMessage{SequenceID: u.UpdateID}
		env := u.Message
		if env == nil {
			env = u.EditedMessage
		}
		if env != nil {
			m.ChatID = env.Chat.ID
			m.Text = env.Text
			if env.From != nil {
				m.SenderID = env.From.ID
			}
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// SendReply posts a plain-text message into the given chat.
func (c *Client) SendReply(ctx context.Context, chatID int64, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.botToken)
	form := url.Values{
		"chat_id": {strconv.FormatInt(chatID, 10)},
		"text":    {text},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			OK          bool   `json:"ok"`
			Description string `json:"description"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		return fmt.Errorf("telegram API error %d: %s", resp.StatusCode, body.Description)
	}
	return nil
}
