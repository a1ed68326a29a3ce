package repository

import (
	"context"

	"loyalty_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, mobile, email, name, password_hash, device_token, avatar_url, role, status, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Mobile,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.DeviceToken,
		&u.AvatarURL,
		&u.Role,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.Role == "" {
		u.Role = domain.RoleCustomer
	}
	if u.Status == "" {
		u.Status = domain.AccountActive
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO users (mobile, email, name, password_hash, device_token, avatar_url, role, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		u.Mobile, u.Email, u.Name, u.PasswordHash, u.DeviceToken, u.AvatarURL, u.Role, u.Status,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return translate(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE mobile = $1`, mobile))
}

// UpdateProfile writes name, email and avatar
func (r *UserRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRow(ctx,
		`UPDATE users SET name = $2, email = $3, avatar_url = $4, updated_at = NOW()
		 WHERE id = $1
		 RETURNING updated_at`,
		u.ID, u.Name, u.Email, u.AvatarURL,
	).Scan(&u.UpdatedAt)
	return translate(err)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, hash string) error {
	return r.execOne(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, userID, hash)
}

func (r *UserRepository) UpdateDeviceToken(ctx context.Context, userID int64, token string) error {
	return r.execOne(ctx, `UPDATE users SET device_token = $2, updated_at = NOW() WHERE id = $1`, userID, token)
}

func (r *UserRepository) UpdateStatus(ctx context.Context, userID int64, status domain.AccountStatus) error {
	return r.execOne(ctx, `UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1`, userID, status)
}

func (r *UserRepository) UpdateRole(ctx context.Context, userID int64, role domain.Role) error {
	return r.execOne(ctx, `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`, userID, role)
}

func (r *UserRepository) execOne(ctx context.Context, sql string, args ...any) error {
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func userConditions(f domain.UserFilter) *conditions {
	c := &conditions{}
	if f.Role != "" {
		c.eq("role", f.Role)
	}
	if f.Status != "" {
		c.eq("status", f.Status)
	}
	return c
}

func (r *UserRepository) Count(ctx context.Context, f domain.UserFilter) (int, error) {
	c := userConditions(f)
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`+c.where(), c.args...).Scan(&total)
	return total, translate(err)
}

// Find returns newest users first
func (r *UserRepository) Find(ctx context.Context, f domain.UserFilter, offset, limit int) ([]domain.User, error) {
	c := userConditions(f)
	sql := `SELECT ` + userColumns + ` FROM users` + c.where() + ` ORDER BY created_at DESC, id DESC` + c.page(limit, offset)
	rows, err := r.db.Query(ctx, sql, c.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var res []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *u)
	}
	return res, translate(rows.Err())
}
