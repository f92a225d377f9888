package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"pet-adoption/internal/domain/messages"
)

type MessagesRepo struct {
	db *sql.DB
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

func (r *MessagesRepo) Insert(ctx context.Context, m messages.Message) (int64, error) {
	var petID sql.NullInt64
	if m.PetID != nil {
		petID = sql.NullInt64{Int64: *m.PetID, Valid: true}
	}

	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO messages (sender_id, recipient_id, pet_id, content, sent_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		m.SenderID, m.RecipientID, petID, m.Content, m.SentAt,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, messages.ErrNotFound
		}
		return 0, fmt.Errorf("insert message: %w", err)
	}
	return id, nil
}

// Conversations: contrapartes ordenadas por el último mensaje intercambiado.
func (r *MessagesRepo) Conversations(ctx context.Context, userID int64) ([]messages.Partner, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, u.profile_photo
		FROM (
			SELECT CASE WHEN sender_id = $1 THEN recipient_id ELSE sender_id END AS partner_id, MAX(id) AS last_id
			FROM messages
			WHERE sender_id = $1 OR recipient_id = $1
			GROUP BY 1
		) c
		JOIN users u ON u.id = c.partner_id
		ORDER BY c.last_id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	out := make([]messages.Partner, 0)
	for rows.Next() {
		var p messages.Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.ProfilePhoto); err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *MessagesRepo) Thread(ctx context.Context, userID, otherID, afterID int64) ([]messages.ThreadMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.sender_id, m.recipient_id, m.pet_id, m.content, m.sent_at, s.name, d.name
		FROM messages m
		JOIN users s ON s.id = m.sender_id
		JOIN users d ON d.id = m.recipient_id
		WHERE ((m.sender_id = $1 AND m.recipient_id = $2) OR (m.sender_id = $2 AND m.recipient_id = $1))
			AND m.id > $3
		ORDER BY m.sent_at ASC, m.id ASC`, userID, otherID, afterID)
	if err != nil {
		return nil, fmt.Errorf("list thread: %w", err)
	}
	defer rows.Close()

	out := make([]messages.ThreadMessage, 0)
	for rows.Next() {
		var (
			m     messages.ThreadMessage
			petID sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &petID, &m.Content, &m.SentAt, &m.SenderName, &m.RecipientName); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if petID.Valid {
			id := petID.Int64
			m.PetID = &id
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
