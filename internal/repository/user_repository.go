package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flatmates/marketplace/internal/domain"
	"github.com/flatmates/marketplace/internal/model"
	"github.com/flatmates/marketplace/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, email, password_hash, name, role, bio, age, occupation,
	budget_min, budget_max, lifestyle, move_in_date, preferred_location,
	images, is_public, COALESCE(settings, '{}'), created_at, updated_at`

// Create inserts a user with the SEEKER role and returns its id.
func (r *UserRepo) Create(ctx context.Context, email, password, name string, cost int) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, name, role) VALUES (?,?,?,?,?)",
		id, email, hash, name, model.RoleSeeker)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return "", ErrEmailExists
		}
		return "", err
	}
	return id, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// ProfileUpdate carries the fields of a partial profile edit.  Nil pointers
// are skipped entirely, leaving the stored column untouched.
type ProfileUpdate struct {
	Name              *string
	Bio               *string
	Age               *int
	Occupation        *string
	BudgetMin         *int
	BudgetMax         *int
	Lifestyle         *string
	MoveInDate        *time.Time
	PreferredLocation *string
	ImagesJSON        *string
	IsPublic          *bool
}

// UpdateProfile applies a partial update.  The SET clause is built only from
// present fields, so absent fields are never overwritten with zero values.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) error {
	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		set = append(set, col+"=?")
		args = append(args, v)
	}
	if in.Name != nil {
		add("name", *in.Name)
	}
	if in.Bio != nil {
		add("bio", *in.Bio)
	}
	if in.Age != nil {
		add("age", *in.Age)
	}
	if in.Occupation != nil {
		add("occupation", *in.Occupation)
	}
	if in.BudgetMin != nil {
		add("budget_min", *in.BudgetMin)
	}
	if in.BudgetMax != nil {
		add("budget_max", *in.BudgetMax)
	}
	if in.Lifestyle != nil {
		add("lifestyle", *in.Lifestyle)
	}
	if in.MoveInDate != nil {
		add("move_in_date", *in.MoveInDate)
	}
	if in.PreferredLocation != nil {
		add("preferred_location", *in.PreferredLocation)
	}
	if in.ImagesJSON != nil {
		add("images", *in.ImagesJSON)
	}
	if in.IsPublic != nil {
		add("is_public", *in.IsPublic)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op update,
		// so confirm existence before reporting ErrNotFound.
		var one int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=?", id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}

// SetHideGender writes the one settings flag with a single atomic JSON_SET
// update.  Concurrent writers of different settings keys cannot clobber each
// other because the merge happens inside the database.
func (r *UserRepo) SetHideGender(ctx context.Context, id string, hide bool) error {
	val := "false"
	if hide {
		val = "true"
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET settings = JSON_SET(COALESCE(settings, JSON_OBJECT()), '$.hideGender', CAST(? AS JSON)) WHERE id=?",
		val, id)
	return err
}

// PromoteToPremium sets the user's role to LISTER_PREMIUM.  Promoting twice
// is a no-op.
func (r *UserRepo) PromoteToPremium(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=? WHERE id=?", model.RoleListerPremium, id)
	return err
}

// ListPublic returns all publicly listed profiles, newest first.  Directory
// filters (location, budget overlap) are applied by the domain layer.
func (r *UserRepo) ListPublic(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE is_public=1 ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Exists reports whether a user id is present.  Used to validate message
// recipients before insert.
func (r *UserRepo) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=? LIMIT 1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(row rowScanner) (model.User, error) {
	var (
		u            model.User
		bio          sql.NullString
		age          sql.NullInt64
		occupation   sql.NullString
		budgetMin    sql.NullInt64
		budgetMax    sql.NullInt64
		lifestyle    sql.NullString
		moveIn       sql.NullTime
		prefLocation sql.NullString
		images       sql.NullString
		settings     string
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
		&bio, &age, &occupation, &budgetMin, &budgetMax, &lifestyle,
		&moveIn, &prefLocation, &images, &u.IsPublic, &settings,
		&u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if bio.Valid {
		u.Bio = &bio.String
	}
	if age.Valid {
		n := int(age.Int64)
		u.Age = &n
	}
	if occupation.Valid {
		u.Occupation = &occupation.String
	}
	if budgetMin.Valid {
		n := int(budgetMin.Int64)
		u.BudgetMin = &n
	}
	if budgetMax.Valid {
		n := int(budgetMax.Int64)
		u.BudgetMax = &n
	}
	if lifestyle.Valid {
		u.Lifestyle = &lifestyle.String
	}
	if moveIn.Valid {
		t := moveIn.Time
		u.MoveInDate = &t
	}
	if prefLocation.Valid {
		u.PreferredLocation = &prefLocation.String
	}
	u.Images = domain.DecodeImages(images.String)
	// Tolerate malformed settings the same way as images: fall back to the
	// zero record instead of failing the read.
	_ = json.Unmarshal([]byte(settings), &u.Settings)
	return u, nil
}
