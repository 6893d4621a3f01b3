package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxMessageLength is the Bot API limit for a single text message
const MaxMessageLength = 4096

const timeout = 10 * time.Second

var apiBaseURL = "https://api.telegram.org/bot"

// Client represents a Telegram Bot API client
type Client struct {
	botToken   string
	httpClient *http.Client
}

// apiResponse is the envelope every Bot API method returns
type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
	Result      json.RawMessage `json:"result"`
}

// NewClient creates a new Telegram client
func NewClient(botToken string) (*Client, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	return &Client{
		botToken: botToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// GetMe returns the bot's own user record
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var me User
	if err := c.call(ctx, "getMe", nil, &me, c.httpClient); err != nil {
		return nil, err
	}
	return &me, nil
}

// GetUpdates long-polls for updates starting at offset.
// timeoutSeconds is passed to Telegram; the HTTP timeout is stretched to cover it.
func (c *Client) GetUpdates(ctx context.Context, offset, timeoutSeconds int) ([]Update, error) {
	payload := map[string]interface{}{
		"allowed_updates": []string{"message"},
	}
	if offset > 0 {
		payload["offset"] = offset
	}
	if timeoutSeconds > 0 {
		payload["timeout"] = timeoutSeconds
	}

	// Add extra time to HTTP client timeout to account for Telegram's long polling
	clientTimeout := time.Duration(timeoutSeconds+10) * time.Second
	if clientTimeout < 15*time.Second {
		clientTimeout = 15 * time.Second
	}
	pollClient := &http.Client{Timeout: clientTimeout, Transport: c.httpClient.Transport}

	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, &updates, pollClient); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage sends a plain-text message, splitting it at line boundaries
// when it exceeds MaxMessageLength
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if chatID == 0 {
		return fmt.Errorf("chat ID is required")
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("message text is required")
	}

	for _, part := range splitMessage(text, MaxMessageLength) {
		payload := map[string]interface{}{
			"chat_id":                  chatID,
			"text":                     part,
			"disable_web_page_preview": true,
		}
		if err := c.call(ctx, "sendMessage", payload, nil, c.httpClient); err != nil {
			return err
		}
	}
	return nil
}

// SendDocument uploads data as a file to the chat
func (c *Client) SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error {
	if chatID == 0 {
		return fmt.Errorf("chat ID is required")
	}
	if filename == "" {
		return fmt.Errorf("filename is required")
	}
	if len(data) == 0 {
		return fmt.Errorf("document data is required")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("writing chat_id: %w", err)
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return fmt.Errorf("writing caption: %w", err)
		}
	}

	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		return fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendDocument"), &body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, nil, c.httpClient)
}

// call POSTs a JSON payload to a Bot API method and decodes the result into out
func (c *Client) call(ctx context.Context, method string, payload interface{}, out interface{}, httpClient *http.Client) error {
	var body io.Reader = http.NoBody
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling payload: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out, httpClient)
}

func (c *Client) do(req *http.Request, out interface{}, httpClient *http.Client) error {
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var result apiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("parsing response: %w", err)
	}

	if !result.OK || resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Code: result.ErrorCode, Description: result.Description}
	}

	if out != nil && len(result.Result) > 0 {
		if err := json.Unmarshal(result.Result, out); err != nil {
			return fmt.Errorf("decoding result: %w", err)
		}
	}

	return nil
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s%s/%s", apiBaseURL, url.PathEscape(c.botToken), method)
}

// APIError is a failure reported by the Bot API itself
type APIError struct {
	StatusCode  int
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram API error (status %d): %s", e.StatusCode, e.Description)
}

// splitMessage breaks text into chunks of at most limit bytes, preferring
// newline boundaries and never splitting a UTF-8 sequence
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var parts []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut <= 0 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
		}
		parts = append(parts, text[:cut])
		text = strings.TrimPrefix(text[cut:], "\n")
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}
