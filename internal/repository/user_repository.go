package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ciclored/ciclored-api/internal/model"
	"github.com/ciclored/ciclored-api/internal/utils"
)

// UserRepo is the credential store: it owns the `users` table and is the
// only place passwords are hashed or compared.
type UserRepo struct {
	db   *sql.DB
	cost int

	dummyOnce sync.Once
	dummyHash string
}

func NewUserRepo(db *sql.DB, bcryptCost int) *UserRepo {
	return &UserRepo{db: db, cost: bcryptCost}
}

const userColumns = "id, name, email, phone, password_hash, created_at, updated_at"

// Register hashes the password and inserts a new user.  It returns
// ErrDuplicateIdentity when the email is already registered.
func (r *UserRepo) Register(ctx context.Context, in model.NewUser) (*model.User, error) {
	hash, err := utils.HashPassword(in.Password, r.cost)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		// bcrypt's limit is in bytes, so multi-byte passwords can pass the
		// request validator and still be too long here
		return nil, &model.ValidationError{Fields: []string{"password"}}
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := utils.Now()
	u := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (name, email, phone, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		u.Name, u.Email, u.Phone, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	u.ID = uint64(id)
	return u, nil
}

// Verify checks an email/password pair.  Unknown emails return ErrNotFound
// and wrong passwords ErrInvalidCredential; both paths run one bcrypt
// comparison so their timing matches.
func (r *UserRepo) Verify(ctx context.Context, email, password string) (*model.User, error) {
	u, err := r.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		_ = utils.VerifyPassword(r.dummy(), password)
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredential
	}
	return u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", normalizeEmail(email))
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id)
	return scanUser(row)
}

func (r *UserRepo) dummy() string {
	r.dummyOnce.Do(func() {
		r.dummyHash, _ = utils.HashPassword("ciclored-dummy-password", r.cost)
	})
	return r.dummyHash
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// userExists reports whether a users row with the id exists.
func userExists(ctx context.Context, db *sql.DB, id uint64) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup user: %w", err)
	}
	return true, nil
}

