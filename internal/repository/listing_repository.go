package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flatmates/marketplace/internal/domain"
	"github.com/flatmates/marketplace/internal/model"
)

type ListingRepo struct{ DB *sql.DB }

func NewListingRepo(db *sql.DB) *ListingRepo { return &ListingRepo{DB: db} }

// CreateWithQuota inserts a listing.  When maxActive is positive the owner's
// ACTIVE listing count is checked inside the same transaction, with the
// owner's rows locked, so two concurrent submissions cannot both pass the
// quota.  maxActive <= 0 means unlimited (premium owners).
func (r *ListingRepo) CreateWithQuota(ctx context.Context, l *model.Listing, maxActive int) error {
	l.ID = uuid.NewString()
	if l.Status == "" {
		l.Status = model.ListingActive
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if maxActive > 0 {
		var count int
		err = tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM listings WHERE user_id=? AND status=? FOR UPDATE",
			l.OwnerID, model.ListingActive).Scan(&count)
		if err != nil {
			return err
		}
		if count >= maxActive {
			return ErrQuotaExceeded
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO listings
			(id, user_id, title, description, rent, deposit, location, amenities,
			 available_from, images, status, is_featured)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		l.ID, l.OwnerID, l.Title, l.Description, l.Rent, l.Deposit, l.Location,
		l.Amenities, l.AvailableFrom, domain.EncodeImages(l.Images), l.Status, l.IsFeatured)
	if err != nil {
		return err
	}
	return tx.Commit()
}

const listingColumns = `l.id, l.user_id, l.title, l.description, l.rent, l.deposit,
	l.location, l.amenities, l.available_from, l.images, l.status, l.is_featured,
	l.created_at, l.updated_at`

// GetByID returns one listing with its owner's public fields attached.
func (r *ListingRepo) GetByID(ctx context.Context, id string) (model.Listing, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+listingColumns+`, u.name, u.email, COALESCE(u.images, ''), u.role
		 FROM listings l JOIN users u ON u.id = l.user_id
		 WHERE l.id=? LIMIT 1`, id)
	return scanListingWithOwner(row, true)
}

// ListingUpdate carries the owner-editable columns of a listing update.
// Nil Images means "images not supplied": the stored value is kept.
type ListingUpdate struct {
	Title         string
	Description   string
	Rent          int
	Deposit       int
	Location      string
	Amenities     string
	AvailableFrom *time.Time
	Images        []string
}

// Update rewrites the editable columns.  Ownership must be checked by the
// caller before invoking this.
func (r *ListingRepo) Update(ctx context.Context, id string, in ListingUpdate) error {
	set := `title=?, description=?, rent=?, deposit=?, location=?, amenities=?, available_from=?`
	args := []any{in.Title, in.Description, in.Rent, in.Deposit, in.Location, in.Amenities, in.AvailableFrom}
	if in.Images != nil {
		set += ", images=?"
		args = append(args, domain.EncodeImages(in.Images))
	}
	args = append(args, id)
	_, err := r.DB.ExecContext(ctx, "UPDATE listings SET "+set+" WHERE id=?", args...)
	return err
}

// Delete removes a listing row.
func (r *ListingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM listings WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus sets a listing's moderation status (admin only).
func (r *ListingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE listings SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var one int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM listings WHERE id=?", id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}

// SearchQuery holds the public search filters.  Rent bounds are inclusive.
type SearchQuery struct {
	Location string
	MinRent  *int
	MaxRent  *int
}

// Search returns ACTIVE listings matching the filters, featured first and
// then newest first.  Owner display fields are attached.
func (r *ListingRepo) Search(ctx context.Context, q SearchQuery) ([]model.Listing, error) {
	where := []string{"l.status = ?"}
	args := []any{model.ListingActive}

	if q.Location != "" {
		where = append(where, "LOWER(l.location) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Location)+"%")
	}
	if q.MinRent != nil {
		where = append(where, "l.rent >= ?")
		args = append(args, *q.MinRent)
	}
	if q.MaxRent != nil {
		where = append(where, "l.rent <= ?")
		args = append(args, *q.MaxRent)
	}

	query := "SELECT " + listingColumns + `, u.name, COALESCE(u.images, ''), u.role
		FROM listings l JOIN users u ON u.id = l.user_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY l.is_featured DESC, l.created_at DESC, l.seq ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows, false)
}

// ListByOwner returns all of one owner's listings regardless of status,
// newest first.  Backs the my-listings view.
func (r *ListingRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Listing, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+listingColumns+` FROM listings l WHERE l.user_id=? ORDER BY l.created_at DESC, l.seq ASC`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListAllForAdmin returns every listing regardless of status with owner name
// and email, newest first.
func (r *ListingRepo) ListAllForAdmin(ctx context.Context) ([]model.Listing, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+listingColumns+`, u.name, u.email
		 FROM listings l JOIN users u ON u.id = l.user_id
		 ORDER BY l.created_at DESC, l.seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Listing{}
	for rows.Next() {
		var (
			l     model.Listing
			avail sql.NullTime
			imgs  sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.Rent,
			&l.Deposit, &l.Location, &l.Amenities, &avail, &imgs, &l.Status,
			&l.IsFeatured, &l.CreatedAt, &l.UpdatedAt, &l.OwnerName, &l.OwnerEmail); err != nil {
			return nil, err
		}
		if avail.Valid {
			t := avail.Time
			l.AvailableFrom = &t
		}
		l.Images = domain.DecodeImages(imgs.String)
		out = append(out, l)
	}
	return out, rows.Err()
}

// SitemapEntry is one ACTIVE listing reference for sitemap generation.
type SitemapEntry struct {
	ID        string
	UpdatedAt time.Time
}

// ActiveEntries lists ACTIVE listing ids with their last-modified times.
func (r *ListingRepo) ActiveEntries(ctx context.Context) ([]SitemapEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, updated_at FROM listings WHERE status=? ORDER BY created_at DESC",
		model.ListingActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SitemapEntry{}
	for rows.Next() {
		var e SitemapEntry
		if err := rows.Scan(&e.ID, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanListing(row rowScanner) (model.Listing, error) {
	var (
		l     model.Listing
		avail sql.NullTime
		imgs  sql.NullString
	)
	err := row.Scan(&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.Rent,
		&l.Deposit, &l.Location, &l.Amenities, &avail, &imgs, &l.Status,
		&l.IsFeatured, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Listing{}, ErrNotFound
	}
	if err != nil {
		return model.Listing{}, err
	}
	if avail.Valid {
		t := avail.Time
		l.AvailableFrom = &t
	}
	l.Images = domain.DecodeImages(imgs.String)
	return l, nil
}

func scanListingWithOwner(row rowScanner, withEmail bool) (model.Listing, error) {
	var (
		l         model.Listing
		avail     sql.NullTime
		imgs      sql.NullString
		ownerImgs string
	)
	dest := []any{&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.Rent,
		&l.Deposit, &l.Location, &l.Amenities, &avail, &imgs, &l.Status,
		&l.IsFeatured, &l.CreatedAt, &l.UpdatedAt, &l.OwnerName}
	if withEmail {
		dest = append(dest, &l.OwnerEmail)
	}
	dest = append(dest, &ownerImgs, &l.OwnerRole)
	err := row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Listing{}, ErrNotFound
	}
	if err != nil {
		return model.Listing{}, err
	}
	if avail.Valid {
		t := avail.Time
		l.AvailableFrom = &t
	}
	l.Images = domain.DecodeImages(imgs.String)
	if first := domain.DecodeImages(ownerImgs); len(first) > 0 {
		l.OwnerImage = first[0]
	}
	return l, nil
}

func collectListings(rows *sql.Rows, withEmail bool) ([]model.Listing, error) {
	out := []model.Listing{}
	for rows.Next() {
		l, err := scanListingWithOwner(rows, withEmail)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
