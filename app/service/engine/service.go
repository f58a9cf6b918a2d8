package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"truevalue/app/client/telegram"
	"truevalue/app/config"
	"truevalue/app/service/agent"
	"truevalue/app/service/conversation"
	"truevalue/app/service/queue"
	"truevalue/app/service/transcribe"

	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

const welcomeText = `*TrueValue AI* — institutional-grade Dubai property analysis.

Ask me anything:
- "Analyze Marina Gate 2BR at 2.5M"
- "Is Business Bay a good buy right now?"
- "Compare JVC and Dubai Marina for rental yield"

I check chiller costs, supply pipeline, net yields and building history — the things listing portals won't tell you.

Commands: /reset clears our conversation, /help shows this message.`

// Service is the message-processing engine: it consumes the inbound queue,
// classifies each message against the user's session, runs the analyst and
// updates conversation memory with the outcome.
type Service struct {
	cfg             *config.Config
	telegramClient  *telegram.Client
	transcribeSvc   *transcribe.Service
	agentSvc        *agent.Service
	conversationSvc *conversation.Service
	queueSvc        *queue.Service
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:             do.MustInvoke[*config.Config](di),
		telegramClient:  do.MustInvoke[*telegram.Client](di),
		transcribeSvc:   do.MustInvoke[*transcribe.Service](di),
		agentSvc:        do.MustInvoke[*agent.Service](di),
		conversationSvc: do.MustInvoke[*conversation.Service](di),
		queueSvc:        do.MustInvoke[*queue.Service](di),
	}, nil
}

// Run starts the Telegram poller and the queue consumer and blocks until ctx
// is cancelled.
func (s *Service) Run(ctx context.Context) {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		s.telegramClient.RunPollLoop(groupCtx)
		return nil
	})

	group.Go(func() error {
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case msg, ok := <-s.queueSvc.Channel():
				if !ok {
					return nil
				}
				s.handleMessage(groupCtx, msg)
			}
		}
	})

	_ = group.Wait()
}

func (s *Service) handleMessage(ctx context.Context, msg queue.Message) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while handling message", "user_id", msg.UserID, "panic", r)
		}
	}()

	start := time.Now()

	text := strings.TrimSpace(msg.Text)

	if msg.VoiceFileID != "" {
		transcribed, err := s.transcribeVoice(ctx, msg.VoiceFileID)
		if err != nil {
			slog.Error("Voice transcription failed", "user_id", msg.UserID, "error", err)
			s.reply(msg.ChatID, "Sorry, I couldn't transcribe that voice note. Please type your question.")
			return
		}
		text = strings.TrimSpace(transcribed)
		slog.Info("Transcribed voice note", "user_id", msg.UserID, "length", len(text))
	}

	if text == "" {
		return
	}

	switch text {
	case "/start", "/help":
		s.reply(msg.ChatID, welcomeText)
		return
	case "/reset", "/new":
		s.conversationSvc.Reset(msg.UserID)
		s.reply(msg.ChatID, "Conversation cleared. Ask me anything about Dubai property.")
		return
	}

	s.telegramClient.SendTyping(msg.ChatID)

	hasSession := s.conversationSvc.HasSession(msg.UserID)
	followup := conversation.IsFollowup(text, hasSession)

	var conversationContext string
	if followup {
		conversationContext, _ = s.conversationSvc.GetContext(msg.UserID)
	}

	slog.Info("Handling query",
		"user_id", msg.UserID,
		"username", msg.Username,
		"followup", followup,
		"has_session", hasSession)

	result, err := s.agentSvc.Handle(ctx, text, conversationContext)
	if err != nil {
		slog.Error("Query failed", "user_id", msg.UserID, "error", err)
		s.reply(msg.ChatID, "Something went wrong while analyzing that. Please try again.")
		return
	}

	s.reply(msg.ChatID, result.Response)

	s.conversationSvc.RecordTurn(msg.UserID, text, result.Response)

	slog.Info("Query handled",
		"user_id", msg.UserID,
		"duration", time.Since(start),
		"tools_used", result.ToolsUsed,
		"active_sessions", s.conversationSvc.ActiveSessionCount())
}

func (s *Service) transcribeVoice(ctx context.Context, fileID string) (string, error) {
	fileURL, err := s.telegramClient.VoiceFileURL(fileID)
	if err != nil {
		return "", err
	}
	return s.transcribeSvc.TranscribeURL(ctx, fileURL)
}

func (s *Service) reply(chatID int64, text string) {
	if err := s.telegramClient.SendMessage(chatID, text); err != nil {
		slog.Error("Failed to send reply", "chat_id", chatID, "error", err)
	}
}
