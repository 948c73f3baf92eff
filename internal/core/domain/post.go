package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        string
	AuthorID  string
	Text      string
	CreatedAt time.Time
}

type Post struct {
	ID        string
	AuthorID  string
	Text      string
	Img       string
	Likes     []string
	Comments  []Comment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostFilter selects posts for the feed queries. A nil slice means "no
// constraint", an empty non-nil slice matches nothing.
type PostFilter struct {
	AuthorIDs   []string
	IDs         []string
	NewestFirst bool
}

// --- READ MODELS ---

type CommentView struct {
	ID        string
	Author    UserSummary
	Text      string
	CreatedAt time.Time
}

type PostView struct {
	ID        string
	Author    UserSummary
	Text      string
	Img       string
	Likes     []string
	Comments  []CommentView
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPost builds a post once the image, if any, has been hosted.
func NewPost(authorID, text, img string) (*Post, error) {
	if strings.TrimSpace(text) == "" && strings.TrimSpace(img) == "" {
		return nil, ErrEmptyPost
	}
	now := time.Now().UTC()
	return &Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Text:      text,
		Img:       img,
		Likes:     []string{},
		Comments:  []Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func NewComment(authorID, text string) (Comment, error) {
	if strings.TrimSpace(text) == "" {
		return Comment{}, ErrEmptyComment
	}
	return Comment{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (p *Post) LikedBy(userID string) bool {
	return slices.Contains(p.Likes, userID)
}

// Empty reports whether the filter can only match nothing.
func (f PostFilter) Empty() bool {
	return (f.AuthorIDs != nil && len(f.AuthorIDs) == 0) || (f.IDs != nil && len(f.IDs) == 0)
}
