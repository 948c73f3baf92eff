package domain

import (
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

// UserSet names one of the id sets owned by a User. Repositories push/pull
// single members atomically on these fields.
type UserSet string

const (
	SetFollowers  UserSet = "followers"
	SetFollowing  UserSet = "following"
	SetLikedPosts UserSet = "likedPosts"
)

// --- ENTITY ---

type User struct {
	ID             string
	Username       string
	FullName       string
	Email          string
	PasswordHash   string
	Followers      []string
	Following      []string
	LikedPosts     []string
	ProfileImg     string
	CoverImg       string
	Bio            string
	Link           string
	SessionVersion int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserSummary is the public projection embedded in posts, comments and lists.
// It never carries credentials.
type UserSummary struct {
	ID         string
	Username   string
	FullName   string
	ProfileImg string
}

// --- FACTORY ---

// NewUser validates the invariants and assigns identity.
func NewUser(username, fullName, email, passwordHash string) (*User, error) {
	username = strings.TrimSpace(username)
	if len(username) < MinUsernameLength {
		return nil, ErrInvalidUsername
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		ID:           uuid.NewString(),
		Username:     username,
		FullName:     strings.TrimSpace(fullName),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		Followers:    []string{},
		Following:    []string{},
		LikedPosts:   []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// --- BEHAVIOUR ---

func (u *User) IsFollowing(userID string) bool {
	return slices.Contains(u.Following, userID)
}

func (u *User) HasLiked(postID string) bool {
	return slices.Contains(u.LikedPosts, postID)
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		ProfileImg: u.ProfileImg,
	}
}

// Set returns the member slice backing the named set.
func (u *User) Set(set UserSet) []string {
	switch set {
	case SetFollowers:
		return u.Followers
	case SetFollowing:
		return u.Following
	case SetLikedPosts:
		return u.LikedPosts
	}
	return nil
}

func (u *User) Touch() {
	u.UpdatedAt = time.Now().UTC()
}

func ValidateEmail(email string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return ErrInvalidEmail
	}
	return nil
}
