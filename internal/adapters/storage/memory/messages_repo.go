package memory

import (
	"context"
	"sort"

	"pet-adoption/internal/domain/messages"
)

type messageRepo struct {
	s *Store
}

func (r *messageRepo) Insert(_ context.Context, m messages.Message) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[m.SenderID]; !ok {
		return 0, messages.ErrNotFound
	}
	if _, ok := r.s.users[m.RecipientID]; !ok {
		return 0, messages.ErrNotFound
	}
	if m.PetID != nil {
		if _, ok := r.s.pets[*m.PetID]; !ok {
			return 0, messages.ErrNotFound
		}
	}

	r.s.lastMessage++
	m.ID = r.s.lastMessage
	r.s.messages[m.ID] = m
	return m.ID, nil
}

// Conversations ordena por el mensaje más reciente con cada contraparte.
func (r *messageRepo) Conversations(_ context.Context, userID int64) ([]messages.Partner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	lastByPartner := map[int64]int64{}
	for _, m := range r.s.messages {
		var other int64
		switch userID {
		case m.SenderID:
			other = m.RecipientID
		case m.RecipientID:
			other = m.SenderID
		default:
			continue
		}
		if m.ID > lastByPartner[other] {
			lastByPartner[other] = m.ID
		}
	}

	out := make([]messages.Partner, 0, len(lastByPartner))
	for id := range lastByPartner {
		u, ok := r.s.users[id]
		if !ok {
			continue
		}
		out = append(out, messages.Partner{ID: u.ID, Name: u.Name, Email: u.Email, ProfilePhoto: u.ProfilePhoto})
	}
	sort.Slice(out, func(i, j int) bool {
		return lastByPartner[out[i].ID] > lastByPartner[out[j].ID]
	})
	return out, nil
}

func (r *messageRepo) Thread(_ context.Context, userID, otherID, afterID int64) ([]messages.ThreadMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]messages.ThreadMessage, 0)
	for _, m := range r.s.messages {
		if m.ID <= afterID {
			continue
		}
		if !(m.SenderID == userID && m.RecipientID == otherID) && !(m.SenderID == otherID && m.RecipientID == userID) {
			continue
		}
		out = append(out, messages.ThreadMessage{
			Message:       m,
			SenderName:    r.s.users[m.SenderID].Name,
			RecipientName: r.s.users[m.RecipientID].Name,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].SentAt.Before(out[j].SentAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
