package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
)

// Les sets sont agrégés en tableaux pour reconstruire l'entité en une requête.
const userColumns = `
	u.id, u.username, u.full_name, u.email, u.password_hash,
	u.profile_img, u.cover_img, u.bio, u.link, u.session_version,
	u.created_at, u.updated_at,
	ARRAY(SELECT member FROM user_sets WHERE user_id = u.id AND set_name = 'followers' ORDER BY added_at),
	ARRAY(SELECT member FROM user_sets WHERE user_id = u.id AND set_name = 'following' ORDER BY added_at),
	ARRAY(SELECT member FROM user_sets WHERE user_id = u.id AND set_name = 'likedPosts' ORDER BY added_at)
`

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	q := `
		INSERT INTO users (id, username, full_name, email, password_hash, profile_img, cover_img, bio, link, session_version, created_at, updated_at)
		VALUES (@id, @username, @full_name, @email, @password_hash, @profile_img, @cover_img, @bio, @link, @session_version, @created_at, @updated_at)
	`
	if _, err := conn(ctx, r.pool).Exec(ctx, q, userArgs(user)); err != nil {
		return r.handleError(err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.username = $1`, username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.email = $1`, email)
}

func (r *UserRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	return r.getMany(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = ANY($1)`, ids)
}

// Update leaves the sets alone, they only move through AddToSet/PullFromSet.
func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	q := `
		UPDATE users
		SET username = @username, full_name = @full_name, email = @email, password_hash = @password_hash,
		    profile_img = @profile_img, cover_img = @cover_img, bio = @bio, link = @link,
		    session_version = @session_version, updated_at = @updated_at
		WHERE id = @id
	`
	tag, err := conn(ctx, r.pool).Exec(ctx, q, userArgs(user))
	if err != nil {
		return r.handleError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) AddToSet(ctx context.Context, userID string, set domain.UserSet, member string) error {
	q := `
		INSERT INTO user_sets (user_id, set_name, member)
		SELECT id, $2, $3 FROM users WHERE id = $1
		ON CONFLICT DO NOTHING
	`
	if _, err := conn(ctx, r.pool).Exec(ctx, q, userID, string(set), member); err != nil {
		return fmt.Errorf("db: add to %s: %w", set, err)
	}
	return r.ensureExists(ctx, userID)
}

func (r *UserRepo) PullFromSet(ctx context.Context, userID string, set domain.UserSet, member string) error {
	q := `DELETE FROM user_sets WHERE user_id = $1 AND set_name = $2 AND member = $3`
	if _, err := conn(ctx, r.pool).Exec(ctx, q, userID, string(set), member); err != nil {
		return fmt.Errorf("db: pull from %s: %w", set, err)
	}
	return r.ensureExists(ctx, userID)
}

func (r *UserRepo) Search(ctx context.Context, query string, includeFullName bool, limit int) ([]*domain.User, error) {
	q := `
		SELECT ` + userColumns + ` FROM users u
		WHERE u.username ILIKE $1 OR ($2 AND u.full_name ILIKE $1)
		ORDER BY u.username
		LIMIT $3
	`
	return r.getMany(ctx, q, likePattern(query), includeFullName, limit)
}

func (r *UserRepo) Sample(ctx context.Context, excludeID string, size int) ([]*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users u WHERE u.id <> $1 ORDER BY random() LIMIT $2`
	return r.getMany(ctx, q, excludeID, size)
}

// --- HELPERS ---

func (r *UserRepo) getOne(ctx context.Context, q string, args ...any) (*domain.User, error) {
	u, err := scanUser(conn(ctx, r.pool).QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("db: get user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) getMany(ctx context.Context, q string, args ...any) ([]*domain.User, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db: list users: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db: scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) ensureExists(ctx context.Context, userID string) error {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("db: user exists: %w", err)
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	return nil
}

// handleError traduit les violations d'unicité en erreurs du domaine.
func (r *UserRepo) handleError(err error) error {
	switch uniqueConstraint(err) {
	case "users_username_key":
		return domain.ErrUsernameTaken
	case "users_email_key":
		return domain.ErrEmailTaken
	}
	return fmt.Errorf("db: write user: %w", err)
}

func userArgs(u *domain.User) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":              u.ID,
		"username":        u.Username,
		"full_name":       u.FullName,
		"email":           u.Email,
		"password_hash":   u.PasswordHash,
		"profile_img":     u.ProfileImg,
		"cover_img":       u.CoverImg,
		"bio":             u.Bio,
		"link":            u.Link,
		"session_version": u.SessionVersion,
		"created_at":      u.CreatedAt,
		"updated_at":      u.UpdatedAt,
	}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Username, &u.FullName, &u.Email, &u.PasswordHash,
		&u.ProfileImg, &u.CoverImg, &u.Bio, &u.Link, &u.SessionVersion,
		&u.CreatedAt, &u.UpdatedAt,
		&u.Followers, &u.Following, &u.LikedPosts,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
