package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
)

const postColumns = `
	p.id, p.author_id, p.text, p.img, p.created_at, p.updated_at,
	ARRAY(SELECT user_id FROM post_likes WHERE post_id = p.id ORDER BY liked_at)
`

type PostRepo struct {
	pool *pgxpool.Pool
}

func NewPostRepo(pool *pgxpool.Pool) *PostRepo {
	return &PostRepo{pool: pool}
}

func (r *PostRepo) Create(ctx context.Context, post *domain.Post) error {
	q := `
		INSERT INTO posts (id, author_id, text, img, created_at, updated_at)
		VALUES (@id, @author_id, @text, @img, @created_at, @updated_at)
	`
	args := pgx.NamedArgs{
		"id":         post.ID,
		"author_id":  post.AuthorID,
		"text":       post.Text,
		"img":        post.Img,
		"created_at": post.CreatedAt,
		"updated_at": post.UpdatedAt,
	}
	if _, err := conn(ctx, r.pool).Exec(ctx, q, args); err != nil {
		return fmt.Errorf("db: insert post: %w", err)
	}
	return nil
}

func (r *PostRepo) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	db := conn(ctx, r.pool)

	p, err := scanPost(db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("db: get post: %w", err)
	}

	if err := r.attachComments(ctx, []*domain.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostRepo) Delete(ctx context.Context, id string) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db: delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// List uses "= ANY($n)" for the set-membership filters. Without NewestFirst
// the rows come back in insertion order.
func (r *PostRepo) List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, error) {
	if filter.Empty() {
		return []*domain.Post{}, nil
	}

	q := `SELECT ` + postColumns + ` FROM posts p WHERE TRUE`
	var args []any
	if filter.AuthorIDs != nil {
		args = append(args, filter.AuthorIDs)
		q += fmt.Sprintf(" AND p.author_id = ANY($%d)", len(args))
	}
	if filter.IDs != nil {
		args = append(args, filter.IDs)
		q += fmt.Sprintf(" AND p.id = ANY($%d)", len(args))
	}
	if filter.NewestFirst {
		q += " ORDER BY p.created_at DESC"
	} else {
		q += " ORDER BY p.created_at ASC"
	}

	rows, err := conn(ctx, r.pool).Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db: list posts: %w", err)
	}
	defer rows.Close()

	posts := []*domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("db: scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachComments(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepo) AddLike(ctx context.Context, postID, userID string) error {
	q := `
		INSERT INTO post_likes (post_id, user_id)
		SELECT id, $2 FROM posts WHERE id = $1
		ON CONFLICT DO NOTHING
	`
	if _, err := conn(ctx, r.pool).Exec(ctx, q, postID, userID); err != nil {
		return fmt.Errorf("db: add like: %w", err)
	}
	return r.ensureExists(ctx, postID)
}

func (r *PostRepo) RemoveLike(ctx context.Context, postID, userID string) error {
	if _, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID); err != nil {
		return fmt.Errorf("db: remove like: %w", err)
	}
	return r.ensureExists(ctx, postID)
}

func (r *PostRepo) AppendComment(ctx context.Context, postID string, c domain.Comment) error {
	q := `
		INSERT INTO comments (id, post_id, author_id, text, created_at)
		SELECT @id, id, @author_id, @text, @created_at FROM posts WHERE id = @post_id
	`
	tag, err := conn(ctx, r.pool).Exec(ctx, q, pgx.NamedArgs{
		"id":         c.ID,
		"post_id":    postID,
		"author_id":  c.AuthorID,
		"text":       c.Text,
		"created_at": c.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("db: append comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// --- HELPERS ---

// attachComments charge les commentaires de tous les posts en une requête.
func (r *PostRepo) attachComments(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Post, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		p.Comments = []domain.Comment{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT post_id, id, author_id, text, created_at FROM comments WHERE post_id = ANY($1) ORDER BY seq`, ids)
	if err != nil {
		return fmt.Errorf("db: load comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID string
		var c domain.Comment
		if err := rows.Scan(&postID, &c.ID, &c.AuthorID, &c.Text, &c.CreatedAt); err != nil {
			return fmt.Errorf("db: scan comment: %w", err)
		}
		if p, ok := byID[postID]; ok {
			p.Comments = append(p.Comments, c)
		}
	}
	return rows.Err()
}

func (r *PostRepo) ensureExists(ctx context.Context, postID string) error {
	var exists bool
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists); err != nil {
		return fmt.Errorf("db: post exists: %w", err)
	}
	if !exists {
		return domain.ErrPostNotFound
	}
	return nil
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	if err := row.Scan(&p.ID, &p.AuthorID, &p.Text, &p.Img, &p.CreatedAt, &p.UpdatedAt, &p.Likes); err != nil {
		return nil, err
	}
	return &p, nil
}
