package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"hotel_finder/internal/domain"
)

// upsertChunk keeps one statement well under max_allowed_packet.
const upsertChunk = 200

func valStr(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func valJSON(v any) any {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "[]"
	}
	return string(b)
}

// Repo is the MySQL hotel catalog.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

// UpsertHotels writes the batch in multi-row statements. Empty text fields
// never overwrite known values.
func (r *Repo) UpsertHotels(ctx context.Context, hs []domain.HotelStatic) error {
	for start := 0; start < len(hs); start += upsertChunk {
		end := min(start+upsertChunk, len(hs))
		if err := r.upsertChunk(ctx, hs[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) upsertChunk(ctx context.Context, hs []domain.HotelStatic) error {
	values := make([]string, 0, len(hs))
	args := make([]any, 0, len(hs)*8) // 8 params per row
	for _, h := range hs {
		values = append(values, "(?,?,?,?,?,?,?,?)")
		args = append(args,
			h.Code,
			valStr(h.Name),
			valStr(h.CategoryCode),
			h.Rating(),
			valStr(h.City),
			valStr(h.Description),
			valJSON(h.Images),
			valJSON(h.AmenityCodes),
		)
	}
	_, err := r.db.ExecContext(ctx, upsertHotelsPrefix+strings.Join(values, ",")+upsertHotelsOnDup, args...)
	return err
}

func (r *Repo) GetHotel(ctx context.Context, code string) (domain.HotelStatic, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, code))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.HotelStatic{}, domain.ErrNotFound
	}
	return h, err
}

// ListHotels returns catalog hotels in a city, best rated first.
func (r *Repo) ListHotels(ctx context.Context, city string, limit int) ([]domain.HotelStatic, error) {
	rows, err := r.db.QueryContext(ctx, listHotelsByCitySQL, city, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.HotelStatic{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHotel(s scanner) (domain.HotelStatic, error) {
	var (
		h                    domain.HotelStatic
		name, cat, city, dsc sql.NullString
		rating               sql.NullFloat64
		imgs, amen           []byte
	)
	if err := s.Scan(&h.Code, &name, &cat, &rating, &city, &dsc, &imgs, &amen); err != nil {
		return domain.HotelStatic{}, err
	}
	h.Name = name.String
	h.CategoryCode = cat.String
	h.StarRating = rating.Float64
	h.City = city.String
	h.Description = dsc.String
	_ = json.Unmarshal(imgs, &h.Images)
	_ = json.Unmarshal(amen, &h.AmenityCodes)
	return h, nil
}
