package messages

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("recipient or pet not found")
)

// Límite de caracteres por mensaje.
const maxContentLen = 4000

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type SendInput struct {
	RecipientID int64
	PetID       *int64
	Content     string
}

func (s *Service) Send(ctx context.Context, senderID int64, in SendInput) (Message, error) {
	content := strings.TrimSpace(in.Content)
	if senderID <= 0 || in.RecipientID <= 0 || content == "" {
		return Message{}, ErrInvalidInput
	}
	if len([]rune(content)) > maxContentLen {
		return Message{}, ErrInvalidInput
	}
	if in.RecipientID == senderID {
		return Message{}, ErrInvalidInput
	}
	if in.PetID != nil && *in.PetID <= 0 {
		return Message{}, ErrInvalidInput
	}

	m := Message{
		SenderID:    senderID,
		RecipientID: in.RecipientID,
		PetID:       in.PetID,
		Content:     content,
		SentAt:      s.now(),
	}
	id, err := s.repo.Insert(ctx, m)
	if err != nil {
		return Message{}, err
	}
	m.ID = id
	return m, nil
}

// ListConversations nunca devuelve nil: sin mensajes es una lista vacía.
func (s *Service) ListConversations(ctx context.Context, userID int64) ([]Partner, error) {
	out, err := s.repo.Conversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Partner{}
	}
	return out, nil
}

func (s *Service) ListThread(ctx context.Context, userID, otherID, afterID int64) ([]ThreadMessage, error) {
	if otherID <= 0 || afterID < 0 {
		return nil, ErrInvalidInput
	}
	out, err := s.repo.Thread(ctx, userID, otherID, afterID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []ThreadMessage{}
	}
	return out, nil
}
