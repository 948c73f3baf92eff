package mongodb

import (
	"time"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
)

// Field names follow the documents the web client already reads.

type userDoc struct {
	ID             string    `bson:"_id"`
	Username       string    `bson:"username"`
	FullName       string    `bson:"fullName"`
	Email          string    `bson:"email"`
	Password       string    `bson:"password"`
	Followers      []string  `bson:"followers"`
	Following      []string  `bson:"following"`
	LikedPosts     []string  `bson:"likedPosts"`
	ProfileImg     string    `bson:"profileImg"`
	CoverImg       string    `bson:"coverImg"`
	Bio            string    `bson:"bio"`
	Link           string    `bson:"link"`
	SessionVersion int       `bson:"sessionVersion"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}

type commentDoc struct {
	ID        string    `bson:"_id"`
	User      string    `bson:"user"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"createdAt"`
}

type postDoc struct {
	ID        string       `bson:"_id"`
	User      string       `bson:"user"`
	Text      string       `bson:"text,omitempty"`
	Img       string       `bson:"img,omitempty"`
	Likes     []string     `bson:"likes"`
	Comments  []commentDoc `bson:"comments"`
	CreatedAt time.Time    `bson:"createdAt"`
	UpdatedAt time.Time    `bson:"updatedAt"`
}

type notificationDoc struct {
	ID        string    `bson:"_id"`
	From      string    `bson:"from"`
	To        string    `bson:"to"`
	Type      string    `bson:"type"`
	Read      bool      `bson:"read"`
	CreatedAt time.Time `bson:"createdAt"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		ID:             u.ID,
		Username:       u.Username,
		FullName:       u.FullName,
		Email:          u.Email,
		Password:       u.PasswordHash,
		Followers:      orEmpty(u.Followers),
		Following:      orEmpty(u.Following),
		LikedPosts:     orEmpty(u.LikedPosts),
		ProfileImg:     u.ProfileImg,
		CoverImg:       u.CoverImg,
		Bio:            u.Bio,
		Link:           u.Link,
		SessionVersion: u.SessionVersion,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:             d.ID,
		Username:       d.Username,
		FullName:       d.FullName,
		Email:          d.Email,
		PasswordHash:   d.Password,
		Followers:      orEmpty(d.Followers),
		Following:      orEmpty(d.Following),
		LikedPosts:     orEmpty(d.LikedPosts),
		ProfileImg:     d.ProfileImg,
		CoverImg:       d.CoverImg,
		Bio:            d.Bio,
		Link:           d.Link,
		SessionVersion: d.SessionVersion,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func toPostDoc(p *domain.Post) postDoc {
	comments := make([]commentDoc, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, toCommentDoc(c))
	}
	return postDoc{
		ID:        p.ID,
		User:      p.AuthorID,
		Text:      p.Text,
		Img:       p.Img,
		Likes:     orEmpty(p.Likes),
		Comments:  comments,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toCommentDoc(c domain.Comment) commentDoc {
	return commentDoc{ID: c.ID, User: c.AuthorID, Text: c.Text, CreatedAt: c.CreatedAt}
}

func (d postDoc) toDomain() *domain.Post {
	comments := make([]domain.Comment, 0, len(d.Comments))
	for _, c := range d.Comments {
		comments = append(comments, domain.Comment{ID: c.ID, AuthorID: c.User, Text: c.Text, CreatedAt: c.CreatedAt})
	}
	return &domain.Post{
		ID:        d.ID,
		AuthorID:  d.User,
		Text:      d.Text,
		Img:       d.Img,
		Likes:     orEmpty(d.Likes),
		Comments:  comments,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toNotificationDoc(n *domain.Notification) notificationDoc {
	return notificationDoc{
		ID:        n.ID,
		From:      n.From,
		To:        n.To,
		Type:      string(n.Type),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func (d notificationDoc) toDomain() *domain.Notification {
	return &domain.Notification{
		ID:        d.ID,
		From:      d.From,
		To:        d.To,
		Type:      domain.NotificationType(d.Type),
		Read:      d.Read,
		CreatedAt: d.CreatedAt,
	}
}

func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
