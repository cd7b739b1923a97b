package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CommandHandler is called when a chat command is received. The returned text
// is sent back to the same chat; an empty reply sends nothing.
type CommandHandler func(chatID, command string) string

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is cancelled.
// Only the configured chat is served.
func (t *TelegramSender) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	client := &http.Client{Timeout: 35 * time.Second}
	if t.Client != nil && t.Client.Transport != nil {
		client.Transport = t.Client.Transport
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("[INFO] Telegram polling stopped")
			return
		default:
		}

		apiURL := fmt.Sprintf("%s?offset=%d&timeout=30", t.endpoint("getUpdates"), offset)
		req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
		if err != nil {
			log.Printf("[ERROR] create polling request: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[WARN] polling request failed: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Printf("[WARN] read polling response: %v", err)
			continue
		}

		offset = t.dispatchUpdates(body, offset, handler)
	}
}

// runCommand keeps a panicking handler from killing the polling loop.
func runCommand(handler CommandHandler, chatID, text string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] command %q panicked: %v", text, r)
			reply = "Something went wrong, try again."
		}
	}()
	return handler(chatID, text)
}

// dispatchUpdates runs handler for every text message in a getUpdates body and
// returns the next offset.
func (t *TelegramSender) dispatchUpdates(body []byte, offset int, handler CommandHandler) int {
	var result struct {
		OK     bool             `json:"ok"`
		Result []telegramUpdate `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		log.Printf("[WARN] decode polling response: %v", err)
		return offset
	}

	for _, update := range result.Result {
		offset = update.UpdateID + 1
		if update.Message == nil || update.Message.Text == "" {
			continue
		}
		chatID := strconv.FormatInt(update.Message.Chat.ID, 10)
		if t.ChatID != "" && chatID != t.ChatID {
			log.Printf("[WARN] ignoring message from chat %s", chatID)
			continue
		}
		text := strings.TrimSpace(update.Message.Text)
		log.Printf("[INFO] received command: %s", text)
		reply := runCommand(handler, chatID, text)
		if reply != "" {
			if err := t.SendTo(chatID, reply); err != nil {
				log.Printf("[ERROR] send reply: %v", err)
			}
		}
	}
	return offset
}
