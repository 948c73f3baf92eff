package rest

import (
	"time"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
)

// --- REQUESTS ---

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	FullName        *string `json:"fullName"`
	Email           *string `json:"email"`
	Username        *string `json:"username"`
	Bio             *string `json:"bio"`
	Link            *string `json:"link"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword"`
	ProfileImg      string  `json:"profileImg"`
	CoverImg        string  `json:"coverImg"`
}

type createPostRequest struct {
	Text string `json:"text"`
	Img  string `json:"img"`
}

type commentRequest struct {
	Text string `json:"text"`
}

// --- RESPONSES ---
// The password hash and session version never leave the process.

type userResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Followers  []string  `json:"followers"`
	Following  []string  `json:"following"`
	LikedPosts []string  `json:"likedPosts"`
	ProfileImg string    `json:"profileImg"`
	CoverImg   string    `json:"coverImg"`
	Bio        string    `json:"bio"`
	Link       string    `json:"link"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type summaryResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	FullName   string `json:"fullName"`
	ProfileImg string `json:"profileImg"`
}

type commentResponse struct {
	ID        string          `json:"id"`
	User      summaryResponse `json:"user"`
	Text      string          `json:"text"`
	CreatedAt time.Time       `json:"createdAt"`
}

type postResponse struct {
	ID        string            `json:"id"`
	User      summaryResponse   `json:"user"`
	Text      string            `json:"text,omitempty"`
	Img       string            `json:"img,omitempty"`
	Likes     []string          `json:"likes"`
	Comments  []commentResponse `json:"comments"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type notificationResponse struct {
	ID        string          `json:"id"`
	From      summaryResponse `json:"from"`
	To        string          `json:"to"`
	Type      string          `json:"type"`
	Read      bool            `json:"read"`
	CreatedAt time.Time       `json:"createdAt"`
}

// --- MAPPERS ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		Email:      u.Email,
		Followers:  nonNil(u.Followers),
		Following:  nonNil(u.Following),
		LikedPosts: nonNil(u.LikedPosts),
		ProfileImg: u.ProfileImg,
		CoverImg:   u.CoverImg,
		Bio:        u.Bio,
		Link:       u.Link,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toSummaryResponse(s domain.UserSummary) summaryResponse {
	return summaryResponse{ID: s.ID, Username: s.Username, FullName: s.FullName, ProfileImg: s.ProfileImg}
}

func toSummaryResponses(in []domain.UserSummary) []summaryResponse {
	out := make([]summaryResponse, 0, len(in))
	for _, s := range in {
		out = append(out, toSummaryResponse(s))
	}
	return out
}

func toCommentResponses(in []domain.CommentView) []commentResponse {
	out := make([]commentResponse, 0, len(in))
	for _, c := range in {
		out = append(out, commentResponse{
			ID:        c.ID,
			User:      toSummaryResponse(c.Author),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return out
}

func toPostResponses(in []*domain.PostView) []postResponse {
	out := make([]postResponse, 0, len(in))
	for _, p := range in {
		out = append(out, postResponse{
			ID:        p.ID,
			User:      toSummaryResponse(p.Author),
			Text:      p.Text,
			Img:       p.Img,
			Likes:     nonNil(p.Likes),
			Comments:  toCommentResponses(p.Comments),
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return out
}

// toCreatedPostResponse renders a freshly saved post: no comments yet, the
// author is the caller.
func toCreatedPostResponse(p *domain.Post, author domain.UserSummary) postResponse {
	return postResponse{
		ID:        p.ID,
		User:      toSummaryResponse(author),
		Text:      p.Text,
		Img:       p.Img,
		Likes:     nonNil(p.Likes),
		Comments:  []commentResponse{},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toNotificationResponses(in []*domain.NotificationView) []notificationResponse {
	out := make([]notificationResponse, 0, len(in))
	for _, n := range in {
		out = append(out, notificationResponse{
			ID:        n.ID,
			From:      toSummaryResponse(n.From),
			To:        n.To,
			Type:      string(n.Type),
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
