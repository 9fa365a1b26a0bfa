package repositories

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vkdrive/vkdrive/internal/models"
	"github.com/vkdrive/vkdrive/internal/shared"
)

// UserRepository persists [models.User] records.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ListCriteria filters and paginates the admin user listing.
type ListCriteria struct {
	Search string // matches email, first or last name (substring) or sequence (exact)
	Role   models.Role
	Active *bool
	Page   int
	Limit  int
}

const userColumns = `id, sequence, email, password_hash, first_name, last_name, role, is_active, vk_token, yandex_token, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var (
		u        models.User
		role     string
		vkTok    sql.NullString
		yaTok    sql.NullString
		active   int
		created  time.Time
		updated  time.Time
	)

	err := row.Scan(&u.ID, &u.Sequence, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&role, &active, &vkTok, &yaTok, &created, &updated)
	if err != nil {
		return nil, err
	}

	u.Role = models.Role(role)
	u.Active = active != 0
	u.VKToken = vkTok.String
	u.YandexToken = yaTok.String
	u.CreatedAt = created
	u.UpdatedAt = updated
	return &u, nil
}

// Create inserts a new user with a generated sequence number.
// Duplicate emails map to [shared.ErrDuplicateEmail].
func (r *UserRepository) Create(user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	var exists bool
	err := r.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE email = ? AND deleted_at IS NULL)", user.Email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return shared.ErrDuplicateEmail
	}

	sequence, err := NextSequence(r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	user.Sequence = sequence

	query := `
		INSERT INTO users (id, sequence, email, password_hash, first_name, last_name, role, is_active, vk_token, yandex_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, user.ID, user.Sequence, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, string(user.Role), boolToInt(user.Active),
		nullable(user.VKToken), nullable(user.YandexToken), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID, excluding soft-deleted users.
func (r *UserRepository) Get(id string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = ? AND deleted_at IS NULL", userColumns)

	user, err := scanUser(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email, excluding soft-deleted users.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = ? AND deleted_at IS NULL", userColumns)

	user, err := scanUser(r.db.QueryRow(query, email))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: email %s", shared.ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return user, nil
}

// List retrieves a filtered, paginated page of users plus the unpaginated
// total for the same filters.
func (r *UserRepository) List(criteria ListCriteria) ([]*models.User, int, error) {
	if criteria.Page <= 0 {
		criteria.Page = 1
	}
	if criteria.Limit <= 0 {
		criteria.Limit = 10
	}

	where := "WHERE deleted_at IS NULL"
	args := []any{}

	if criteria.Search != "" {
		like := "%" + criteria.Search + "%"
		clause := " AND (email LIKE ? OR first_name LIKE ? OR last_name LIKE ? OR sequence = ?)"
		seq := 0
		if n, err := strconv.Atoi(strings.TrimSpace(criteria.Search)); err == nil {
			seq = n
		}
		where += clause
		args = append(args, like, like, like, seq)
	}

	if criteria.Role != "" {
		where += " AND role = ?"
		args = append(args, string(criteria.Role))
	}

	if criteria.Active != nil {
		where += " AND is_active = ?"
		args = append(args, boolToInt(*criteria.Active))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM users " + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM users %s ORDER BY created_at DESC LIMIT ? OFFSET ?", userColumns, where)
	args = append(args, criteria.Limit, (criteria.Page-1)*criteria.Limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, total, nil
}

// SetRole updates a user's role.
func (r *UserRepository) SetRole(id string, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: invalid role %q", shared.ErrValidation, role)
	}
	return r.update(id, "UPDATE users SET role = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL", string(role))
}

// SetActive updates a user's activation flag.
func (r *UserRepository) SetActive(id string, active bool) error {
	return r.update(id, "UPDATE users SET is_active = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL", boolToInt(active))
}

// SetPassword replaces a user's password hash.
func (r *UserRepository) SetPassword(id, passwordHash string) error {
	return r.update(id, "UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL", passwordHash)
}

// SetTokens stores the (already encrypted) provider tokens for a user.
func (r *UserRepository) SetTokens(id, vkToken, yandexToken string) error {
	result, err := r.db.Exec("UPDATE users SET vk_token = ?, yandex_token = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL",
		nullable(vkToken), nullable(yandexToken), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update tokens: %w", err)
	}
	return checkAffected(result, id)
}

// Delete soft-deletes a user by ID.
func (r *UserRepository) Delete(id string) error {
	result, err := r.db.Exec("UPDATE users SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return checkAffected(result, id)
}

func (r *UserRepository) update(id, query string, value any) error {
	result, err := r.db.Exec(query, value, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return checkAffected(result, id)
}

func checkAffected(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: user %s", shared.ErrNotFound, id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
