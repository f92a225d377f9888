package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/pets"
)

type AdoptionsRepo struct {
	db *sql.DB
}

func NewAdoptionsRepo(db *sql.DB) *AdoptionsRepo {
	return &AdoptionsRepo{db: db}
}

// WithinTx corre en read committed; los FOR UPDATE y el índice único parcial
// cierran las carreras entre solicitudes concurrentes.
func (r *AdoptionsRepo) WithinTx(ctx context.Context, fn func(tx adoptions.Tx) error) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(&adoptionTx{tx: tx})
	})
}

func (r *AdoptionsRepo) ListByRequester(ctx context.Context, requesterID int64) ([]adoptions.MineView, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.pet_id, a.requester_id, a.status, a.created_at, a.decided_at, p.name, p.photo, h.name
		FROM adoption_requests a
		JOIN pets p ON p.id = a.pet_id
		JOIN users h ON h.id = p.holder_id
		WHERE a.requester_id = $1
		ORDER BY a.created_at DESC, a.id DESC`, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list my adoption requests: %w", err)
	}
	defer rows.Close()

	out := make([]adoptions.MineView, 0)
	for rows.Next() {
		var v adoptions.MineView
		req, err := scanRequest(rows, &v.PetName, &v.PetPhoto, &v.HolderName)
		if err != nil {
			return nil, err
		}
		v.Request = req
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *AdoptionsRepo) ListByHolder(ctx context.Context, holderID int64) ([]adoptions.ReceivedView, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.pet_id, a.requester_id, a.status, a.created_at, a.decided_at, p.name, p.photo, u.name, u.email
		FROM adoption_requests a
		JOIN pets p ON p.id = a.pet_id
		JOIN users u ON u.id = a.requester_id
		WHERE p.holder_id = $1
		ORDER BY a.created_at DESC, a.id DESC`, holderID)
	if err != nil {
		return nil, fmt.Errorf("list received adoption requests: %w", err)
	}
	defer rows.Close()

	out := make([]adoptions.ReceivedView, 0)
	for rows.Next() {
		var v adoptions.ReceivedView
		req, err := scanRequest(rows, &v.PetName, &v.PetPhoto, &v.RequesterName, &v.RequesterEmail)
		if err != nil {
			return nil, err
		}
		v.Request = req
		out = append(out, v)
	}
	return out, rows.Err()
}

type adoptionTx struct {
	tx *sql.Tx
}

func (t *adoptionTx) LockPet(ctx context.Context, petID int64) (adoptions.PetState, error) {
	var (
		s  adoptions.PetState
		st string
	)
	err := t.tx.QueryRowContext(ctx, `SELECT id, holder_id, status FROM pets WHERE id = $1 FOR UPDATE`, petID).
		Scan(&s.ID, &s.HolderID, &st)
	if errors.Is(err, sql.ErrNoRows) {
		return adoptions.PetState{}, adoptions.ErrNotFound
	}
	if err != nil {
		return adoptions.PetState{}, fmt.Errorf("lock pet: %w", err)
	}
	s.Status = pets.Status(st)
	return s, nil
}

func (t *adoptionTx) HasPending(ctx context.Context, petID int64) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM adoption_requests WHERE pet_id = $1 AND status = $2)`,
		petID, string(adoptions.StatusPending),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pending lookup: %w", err)
	}
	return exists, nil
}

func (t *adoptionTx) Insert(ctx context.Context, req adoptions.Request) (int64, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx,
		`INSERT INTO adoption_requests (pet_id, requester_id, status, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		req.PetID, req.RequesterID, string(req.Status), req.CreatedAt,
	).Scan(&id)
	switch {
	case err == nil:
		return id, nil
	case isUniqueViolation(err):
		return 0, adoptions.ErrConflict
	case isForeignKeyViolation(err):
		return 0, adoptions.ErrNotFound
	default:
		return 0, fmt.Errorf("insert adoption request: %w", err)
	}
}

func (t *adoptionTx) LockRequest(ctx context.Context, id int64) (adoptions.Request, int64, error) {
	var holderID int64
	row := t.tx.QueryRowContext(ctx, `
		SELECT a.id, a.pet_id, a.requester_id, a.status, a.created_at, a.decided_at, p.holder_id
		FROM adoption_requests a
		JOIN pets p ON p.id = a.pet_id
		WHERE a.id = $1
		FOR UPDATE`, id)
	req, err := scanRequest(row, &holderID)
	if errors.Is(err, sql.ErrNoRows) {
		return adoptions.Request{}, 0, adoptions.ErrNotFound
	}
	if err != nil {
		return adoptions.Request{}, 0, err
	}
	return req, holderID, nil
}

func (t *adoptionTx) SetStatus(ctx context.Context, id int64, from, to adoptions.Status, at time.Time) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE adoption_requests SET status = $3, decided_at = $4 WHERE id = $1 AND status = $2`,
		id, string(from), string(to), at,
	)
	if err != nil {
		return fmt.Errorf("update adoption status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return adoptions.ErrInvalidState
	}
	return nil
}

func (t *adoptionTx) SetPetStatus(ctx context.Context, petID int64, st pets.Status) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE pets SET status = $2, updated_at = now() WHERE id = $1`,
		petID, string(st),
	)
	if err != nil {
		return fmt.Errorf("update pet status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return adoptions.ErrNotFound
	}
	return nil
}

func scanRequest(row scanner, extra ...any) (adoptions.Request, error) {
	var (
		req     adoptions.Request
		st      string
		decided sql.NullTime
	)
	dest := []any{&req.ID, &req.PetID, &req.RequesterID, &st, &req.CreatedAt, &decided}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return adoptions.Request{}, err
		}
		return adoptions.Request{}, fmt.Errorf("scan adoption request: %w", err)
	}
	req.Status = adoptions.Status(st)
	if decided.Valid {
		t := decided.Time
		req.DecidedAt = &t
	}
	return req, nil
}
