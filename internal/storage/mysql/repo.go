package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"flex_reviews/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertProperty(ctx context.Context, p domain.Property) error {
	amen, _ := json.Marshal(p.Amenities)
	desc, _ := json.Marshal(p.Description)
	imgs, _ := json.Marshal(p.Images)
	_, err := r.db.ExecContext(ctx, upsertPropertySQL,
		p.ID,
		p.Name,
		p.Location,
		p.Address,
		p.Price,
		p.Currency,
		string(amen),
		string(desc),
		string(imgs),
		valStr(p.CheckInTime),
		valStr(p.CheckOutTime),
		p.MinStay,
		p.PropertyType,
		p.Bedrooms,
		p.Bathrooms,
		p.Guests,
	)
	return err
}

func (r *Repo) UpsertReviews(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*11) // 11 params per row
	for _, rv := range rs {
		// Columns (from insertReviewsPrefix):
		// (id, property_id, listing_name, channel, review_type, status, rating, categories, `text`, submitted_at, guest_name)
		values = append(values, "(?,?,?,?,?,?,?,?,?,?,?)")

		var cats any
		if len(rv.Categories) > 0 {
			b, _ := json.Marshal(rv.Categories)
			cats = string(b)
		}
		args = append(args,
			rv.ID,
			rv.PropertyID,
			rv.ListingName,
			rv.Channel,
			rv.Type,
			rv.Status,
			valF64(rv.Rating),
			cats,
			valStr(rv.Text),
			rv.SubmittedAt,
			valStr(rv.GuestName),
		)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) LogMiss(ctx context.Context, channel string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, channel, status, reason)
	return err
}

func (r *Repo) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	row := r.db.QueryRowContext(ctx, getPropertySQL, id)

	var p domain.Property
	var amenJSON, descJSON, imgsJSON []byte
	var checkIn, checkOut sql.NullString

	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Location,
		&p.Address,
		&p.Price,
		&p.Currency,
		&amenJSON,
		&descJSON,
		&imgsJSON,
		&checkIn,
		&checkOut,
		&p.MinStay,
		&p.PropertyType,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.Guests,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Property{}, domain.ErrNotFound
		}
		return domain.Property{}, err
	}

	_ = json.Unmarshal(amenJSON, &p.Amenities)
	_ = json.Unmarshal(descJSON, &p.Description)
	_ = json.Unmarshal(imgsJSON, &p.Images)
	if checkIn.Valid {
		s := checkIn.String
		p.CheckInTime = &s
	}
	if checkOut.Valid {
		s := checkOut.String
		p.CheckOutTime = &s
	}
	return p, nil
}

func (r *Repo) ListReviews(ctx context.Context, q domain.ReviewsQuery) ([]domain.Review, error) {
	sqlStr := listReviewsBaseSQL
	var conds []string
	var args []any
	if q.Channel != "" {
		conds = append(conds, "channel = ?")
		args = append(args, q.Channel)
	}
	if q.ListingID != "" {
		conds = append(conds, "property_id = ?")
		args = append(args, q.ListingID)
	}
	if len(conds) > 0 {
		sqlStr += "WHERE " + strings.Join(conds, " AND ") + "\n"
	}
	sqlStr += "ORDER BY submitted_at DESC, id DESC"
	if q.Limit > 0 {
		sqlStr += "\nLIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var (
			rating    sql.NullFloat64
			catsRaw   sql.RawBytes
			text      sql.NullString
			guestName sql.NullString
		)
		if err := rows.Scan(
			&rv.ID,
			&rv.PropertyID,
			&rv.ListingName,
			&rv.Channel,
			&rv.Type,
			&rv.Status,
			&rating,
			&catsRaw,
			&text,
			&rv.SubmittedAt,
			&guestName,
			&rv.ManagerApproved,
		); err != nil {
			return nil, err
		}

		if rating.Valid {
			f := rating.Float64
			rv.Rating = &f
		}
		if len(catsRaw) > 0 {
			_ = json.Unmarshal(catsRaw, &rv.Categories)
		}
		if text.Valid {
			s := text.String
			rv.Text = &s
		}
		if guestName.Valid {
			s := guestName.String
			rv.GuestName = &s
		}

		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ToggleApproval(ctx context.Context, reviewID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, toggleApprovalSQL, reviewID)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return false, domain.ErrNotFound
	}

	var approved bool
	if err := r.db.QueryRowContext(ctx, getApprovalSQL, reviewID).Scan(&approved); err != nil {
		if err == sql.ErrNoRows {
			return false, domain.ErrNotFound
		}
		return false, err
	}
	return approved, nil
}

func (r *Repo) ListApprovals(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, listApprovalsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		var approved bool
		if err := rows.Scan(&id, &approved); err != nil {
			return nil, err
		}
		out[id] = approved
	}
	return out, rows.Err()
}
