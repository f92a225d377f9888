package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pet-adoption/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `p.id, p.holder_id, p.name, p.species, p.breed, p.age, p.sex, p.size, p.color,
	p.description, p.status, p.latitude, p.longitude, p.photo, p.created_at, p.updated_at`

const listingColumns = petColumns + `, u.name, u.email, u.phone, u.city, u.state`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO pets (
			holder_id, name, species, breed, age, sex, size, color,
			description, status, latitude, longitude, photo, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`,
		p.HolderID, p.Name, string(p.Species), p.Breed, nullInt(p.Age), string(p.Sex), p.Size, p.Color,
		p.Description, string(p.Status), nullFloat(p.Latitude), nullFloat(p.Longitude), p.Photo,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, pets.ErrNotFound
		}
		return 0, fmt.Errorf("insert pet: %w", err)
	}
	return id, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets p WHERE p.id = $1`, id)
	p, err := scanPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

func (r *PetsRepo) GetListing(ctx context.Context, id int64) (pets.Listing, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+listingColumns+`
		FROM pets p JOIN users u ON u.id = p.holder_id
		WHERE p.id = $1`, id)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pets.Listing{}, pets.ErrNotFound
	}
	return l, err
}

// List filtra con valores siempre parametrizados.
func (r *PetsRepo) List(ctx context.Context, f pets.ListFilter) ([]pets.Listing, error) {
	where := petFilter(f)
	q := `SELECT ` + listingColumns + ` FROM pets p JOIN users u ON u.id = p.holder_id` +
		where.where() + ` ORDER BY p.created_at DESC, p.id DESC`

	rows, err := r.db.QueryContext(ctx, q, where.args...)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	defer rows.Close()

	out := make([]pets.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func petFilter(f pets.ListFilter) predicates {
	var p predicates
	if f.Status != "" {
		p.add("p.status = ?", string(f.Status))
	}
	if f.Species != "" {
		p.add("LOWER(p.species) = LOWER(?)", string(f.Species))
	}
	if f.City != "" {
		p.add("LOWER(u.city) = LOWER(?)", f.City)
	}
	if f.State != "" {
		p.add("LOWER(u.state) = LOWER(?)", f.State)
	}
	return p
}

func (r *PetsRepo) ListByHolder(ctx context.Context, holderID int64) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+petColumns+` FROM pets p
		WHERE p.holder_id = $1
		ORDER BY p.created_at DESC, p.id DESC`, holderID)
	if err != nil {
		return nil, fmt.Errorf("list holder pets: %w", err)
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET name = $3, species = $4, breed = $5, age = $6, sex = $7, size = $8, color = $9,
			description = $10, status = $11, latitude = $12, longitude = $13, photo = $14, updated_at = $15
		WHERE id = $1 AND holder_id = $2`,
		p.ID, p.HolderID,
		p.Name, string(p.Species), p.Breed, nullInt(p.Age), string(p.Sex), p.Size, p.Color,
		p.Description, string(p.Status), nullFloat(p.Latitude), nullFloat(p.Longitude), p.Photo, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pet: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) Delete(ctx context.Context, id, holderID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1 AND holder_id = $2`, id, holderID)
	if err != nil {
		return fmt.Errorf("delete pet: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) PhotosByHolder(ctx context.Context, holderID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT photo FROM pets WHERE holder_id = $1 AND photo <> ''`, holderID)
	if err != nil {
		return nil, fmt.Errorf("holder photos: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func scanPet(row scanner, extra ...any) (pets.Pet, error) {
	var (
		p                   pets.Pet
		species, sex, st    string
		age                 sql.NullInt32
		latitude, longitude sql.NullFloat64
	)
	dest := []any{
		&p.ID, &p.HolderID, &p.Name, &species, &p.Breed, &age, &sex, &p.Size, &p.Color,
		&p.Description, &st, &latitude, &longitude, &p.Photo, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, err
		}
		return pets.Pet{}, fmt.Errorf("scan pet: %w", err)
	}

	p.Species = pets.Species(species)
	p.Sex = pets.Sex(sex)
	p.Status = pets.Status(st)
	if age.Valid {
		n := int(age.Int32)
		p.Age = &n
	}
	if latitude.Valid {
		p.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		p.Longitude = &longitude.Float64
	}
	return p, nil
}

func scanListing(row scanner) (pets.Listing, error) {
	var l pets.Listing
	p, err := scanPet(row, &l.HolderName, &l.HolderEmail, &l.HolderPhone, &l.HolderCity, &l.HolderState)
	if err != nil {
		return pets.Listing{}, err
	}
	l.Pet = p
	return l, nil
}

func nullInt(v *int) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
