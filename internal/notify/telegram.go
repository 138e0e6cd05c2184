package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"order-desk/internal/config"

	"github.com/rs/zerolog"
)

const maxResponseBodySize = 64 * 1024

// sendMessageRequest is the Bot API sendMessage payload.
type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// sendMessageResponse is the subset of the Bot API reply that is checked.
type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// telegramNotifier implements Notifier with the Telegram Bot API.
type telegramNotifier struct {
	endpoint string
	chatID   string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier creates a notifier posting to cfg.ChatID.
// If client is nil a client with cfg.Timeout is used.
func NewTelegramNotifier(cfg config.NotifierConfig, client *http.Client, logger zerolog.Logger) Notifier {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &telegramNotifier{
		endpoint: fmt.Sprintf("%s/bot%s/sendMessage", cfg.APIBaseURL, cfg.BotToken),
		chatID:   cfg.ChatID,
		client:   client,
		logger:   logger.With().Str("component", "telegram-notifier").Logger(),
	}
}

// Notify posts text to the configured chat with HTML parse mode.
// A transport error, a non-2xx status, or "ok": false in the reply is an error.
func (n *telegramNotifier) Notify(ctx context.Context, text string) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                n.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		err = redact(err)
		n.logger.Error().Err(err).Str("chat_id", n.chatID).Msg("telegram request failed")
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		n.logger.Error().
			Err(readErr).
			Int("status", resp.StatusCode).
			Str("chat_id", n.chatID).
			Str("response", string(body)).
			Msg("telegram rejected message")
		if readErr != nil {
			return fmt.Errorf("telegram returned status %d (failed to read response: %v)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	// A 2xx status already means the message was accepted.
	if readErr != nil {
		n.logger.Warn().
			Err(readErr).
			Int("status", resp.StatusCode).
			Str("chat_id", n.chatID).
			Msg("failed to read telegram response")
		return nil
	}

	var reply sendMessageResponse
	if err := json.Unmarshal(body, &reply); err == nil && !reply.OK {
		n.logger.Error().
			Str("chat_id", n.chatID).
			Str("description", reply.Description).
			Msg("telegram reported failure")
		return fmt.Errorf("telegram reported failure: %s", reply.Description)
	}

	n.logger.Debug().Str("chat_id", n.chatID).Msg("notification delivered")

	return nil
}

// redact strips the request URL, which carries the bot token, from transport errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
