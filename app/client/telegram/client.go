package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"truevalue/app/config"
	"truevalue/app/service/queue"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/do"
)

// Telegram hard limit per message.
const maxMessageRunes = 4096

type Client struct {
	cfg      *config.Config
	queueSvc *queue.Service

	bot *tgbotapi.BotAPI
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	slog.Info("Telegram bot authorized", "username", bot.Self.UserName)

	return &Client{
		cfg:      cfg,
		queueSvc: do.MustInvoke[*queue.Service](di),
		bot:      bot,
	}, nil
}

// RunPollLoop long-polls Telegram and feeds inbound messages into the queue
// until ctx is cancelled.
func (c *Client) RunPollLoop(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30

	updates := c.bot.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			c.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}

			msg := queue.Message{
				UserID:   strconv.FormatInt(update.Message.From.ID, 10),
				ChatID:   update.Message.Chat.ID,
				Username: update.Message.From.UserName,
				Text:     update.Message.Text,
			}
			if update.Message.Voice != nil {
				msg.VoiceFileID = update.Message.Voice.FileID
			}

			c.queueSvc.Add(msg)
		}
	}
}

// SendMessage delivers text to a chat, splitting it into Telegram-sized
// chunks. Markdown parse failures fall back to plain text rather than
// dropping the reply.
func (c *Client) SendMessage(chatID int64, text string) error {
	for _, chunk := range splitMessage(text) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = tgbotapi.ModeMarkdown

		if _, err := c.bot.Send(msg); err != nil {
			plain := tgbotapi.NewMessage(chatID, chunk)
			if _, err = c.bot.Send(plain); err != nil {
				return fmt.Errorf("failed to send message: %w", err)
			}
		}
	}
	return nil
}

// SendTyping shows the "typing..." indicator while a query is being analysed.
func (c *Client) SendTyping(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := c.bot.Request(action); err != nil {
		slog.Debug("Failed to send typing action", "error", err)
	}
}

// VoiceFileURL resolves a voice note's file ID to a download URL.
func (c *Client) VoiceFileURL(fileID string) (string, error) {
	url, err := c.bot.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve file URL: %w", err)
	}
	return url, nil
}

func splitMessage(text string) []string {
	runes := []rune(text)
	if len(runes) <= maxMessageRunes {
		return []string{text}
	}

	var chunks []string
	for len(runes) > 0 {
		n := min(len(runes), maxMessageRunes)
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}
