package service

import (
	"fmt"
	"strings"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/model"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/repository"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/logger"

	"go.uber.org/zap"
)

// historyWindow is how many prior messages get injected into each
// completion. Matches the cache depth kept in Redis.
const historyWindow = 20

// ChatService is the AI companion: workspace-scoped conversations with the
// recent window injected on every turn. Professional and personal chats
// never see each other's history.
type ChatService struct {
	AI       *AIService
	ChatRepo *repository.ChatRepository
	UserRepo *repository.UserRepository
}

func NewChatService(ai *AIService, chatRepo *repository.ChatRepository, userRepo *repository.UserRepository) *ChatService {
	return &ChatService{AI: ai, ChatRepo: chatRepo, UserRepo: userRepo}
}

func (s *ChatService) systemPrompt(userID uint, workspace model.Workspace) string {
	name := ""
	if user, err := s.UserRepo.FindByID(userID); err == nil {
		name = user.Name
	}

	var b strings.Builder
	b.WriteString("You are Tai, the Tfive companion. You guide people through 25-minute Learn/Act/Earn growth sessions.")
	if workspace == model.WorkspacePersonal {
		b.WriteString(" This is the user's personal space: focus on wellbeing, habits and personal growth. Keep a warm, informal register.")
	} else {
		b.WriteString(" This is the user's professional space: focus on skills, leadership and career growth. Keep a supportive, focused register.")
	}
	if name != "" {
		fmt.Fprintf(&b, " The user's name is %s.", name)
	}
	b.WriteString(" Keep answers short and actionable; suggest starting a session when it fits.")
	return b.String()
}

func (s *ChatService) recentHistory(userID uint, workspace model.Workspace) []AIChatMessage {
	recent, err := s.ChatRepo.Recent(userID, workspace, historyWindow)
	if err != nil {
		logger.Log.Warn("failed to load chat history", zap.Uint("user", userID), zap.Error(err))
		return nil
	}
	history := make([]AIChatMessage, 0, len(recent))
	for _, msg := range recent {
		history = append(history, AIChatMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return history
}

// Send runs one blocking companion turn: persist the user message, complete
// with the recent window, persist and return the reply.
func (s *ChatService) Send(userID uint, workspace model.Workspace, content string) (*model.ChatMessage, error) {
	history := s.recentHistory(userID, workspace)

	userMsg := &model.ChatMessage{
		UserID:    userID,
		Workspace: workspace,
		Role:      model.ChatRoleUser,
		Content:   content,
	}
	if err := s.ChatRepo.Create(userMsg); err != nil {
		return nil, err
	}

	reply, err := s.AI.ChatWithHistory(s.systemPrompt(userID, workspace), history, content)
	if err != nil {
		return nil, err
	}

	assistantMsg := &model.ChatMessage{
		UserID:    userID,
		Workspace: workspace,
		Role:      model.ChatRoleAssistant,
		Content:   reply,
	}
	if err := s.ChatRepo.Create(assistantMsg); err != nil {
		logger.Log.Error("failed to persist assistant message", zap.Error(err))
	}
	return assistantMsg, nil
}

// Stream runs one streaming companion turn. Deltas arrive on the returned
// channel; once the stream ends the full reply is persisted so the next turn
// sees it in history.
func (s *ChatService) Stream(userID uint, workspace model.Workspace, content string) (<-chan string, <-chan error) {
	history := s.recentHistory(userID, workspace)

	userMsg := &model.ChatMessage{
		UserID:    userID,
		Workspace: workspace,
		Role:      model.ChatRoleUser,
		Content:   content,
	}
	if err := s.ChatRepo.Create(userMsg); err != nil {
		errChan := make(chan error, 1)
		errChan <- err
		close(errChan)
		out := make(chan string)
		close(out)
		return out, errChan
	}

	deltas, errs := s.AI.ChatStream(s.systemPrompt(userID, workspace), history, content)

	out := make(chan string)
	errChan := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errChan)

		var full strings.Builder
		for delta := range deltas {
			full.WriteString(delta)
			out <- delta
		}
		if err, ok := <-errs; ok && err != nil {
			errChan <- err
		}

		if full.Len() == 0 {
			return
		}
		assistantMsg := &model.ChatMessage{
			UserID:    userID,
			Workspace: workspace,
			Role:      model.ChatRoleAssistant,
			Content:   full.String(),
		}
		if err := s.ChatRepo.Create(assistantMsg); err != nil {
			logger.Log.Error("failed to persist assistant message", zap.Error(err))
		}
	}()
	return out, errChan
}

func (s *ChatService) History(userID uint, workspace model.Workspace, page, pageSize int) ([]model.ChatMessage, int64, error) {
	return s.ChatRepo.History(userID, workspace, page, pageSize)
}

func (s *ChatService) Clear(userID uint, workspace model.Workspace) error {
	return s.ChatRepo.ClearHistory(userID, workspace)
}
