package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/ports"
)

// --- AUTH ---

func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.svc.Identity.Signup(c.Request.Context(), ports.SignupCmd{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	s.setSessionCookie(c, res.Token)
	c.JSON(http.StatusCreated, toUserResponse(res.User))
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.svc.Identity.Login(c.Request.Context(), ports.LoginCmd{Username: req.Username, Password: req.Password})
	if err != nil {
		respondError(c, err)
		return
	}

	s.setSessionCookie(c, res.Token)
	c.JSON(http.StatusOK, toUserResponse(res.User))
}

func (s *Server) logout(c *gin.Context) {
	if err := s.svc.Identity.Logout(c.Request.Context(), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	s.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (s *Server) me(c *gin.Context) {
	user, err := s.svc.Identity.Me(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// --- USERS ---

func (s *Server) getProfile(c *gin.Context) {
	user, err := s.svc.Users.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) suggested(c *gin.Context) {
	users, err := s.svc.Users.Suggested(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponses(users))
}

func (s *Server) toggleFollow(c *gin.Context) {
	res, err := s.svc.Graph.ToggleFollow(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	msg := "User unfollowed successfully"
	if res.Following {
		msg = "User followed successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "following": res.Following})
}

func (s *Server) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.svc.Users.UpdateProfile(c.Request.Context(), ports.UpdateProfileCmd{
		UserID:          currentUser(c),
		FullName:        req.FullName,
		Email:           req.Email,
		Username:        req.Username,
		Bio:             req.Bio,
		Link:            req.Link,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ProfileImg:      req.ProfileImg,
		CoverImg:        req.CoverImg,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) followers(c *gin.Context) {
	s.summaries(c, s.svc.Users.Followers, c.Param("username"))
}

func (s *Server) following(c *gin.Context) {
	s.summaries(c, s.svc.Users.Following, c.Param("username"))
}

func (s *Server) search(c *gin.Context) {
	s.summaries(c, s.svc.Users.Search, c.Query("q"))
}

func (s *Server) searchMentions(c *gin.Context) {
	s.summaries(c, s.svc.Users.SearchMentions, c.Query("q"))
}

func (s *Server) summaries(c *gin.Context, query func(context.Context, string) ([]domain.UserSummary, error), key string) {
	out, err := query(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSummaryResponses(out))
}

// --- POSTS ---

func (s *Server) listAll(c *gin.Context) {
	views, err := s.svc.Feed.ListAll(c.Request.Context())
	writePosts(c, views, err)
}

func (s *Server) listFollowing(c *gin.Context) {
	views, err := s.svc.Feed.ListFollowingFeed(c.Request.Context(), currentUser(c))
	writePosts(c, views, err)
}

func (s *Server) listLiked(c *gin.Context) {
	views, err := s.svc.Feed.ListLiked(c.Request.Context(), c.Param("id"))
	writePosts(c, views, err)
}

func (s *Server) listByAuthor(c *gin.Context) {
	views, err := s.svc.Feed.ListByAuthor(c.Request.Context(), c.Param("username"))
	writePosts(c, views, err)
}

func writePosts(c *gin.Context, views []*domain.PostView, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPostResponses(views))
}

func (s *Server) createPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	post, err := s.svc.Feed.CreatePost(ctx, ports.CreatePostCmd{
		AuthorID: currentUser(c),
		Text:     req.Text,
		Img:      req.Img,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	author := domain.UserSummary{ID: post.AuthorID}
	if u, err := s.svc.Identity.Me(ctx, post.AuthorID); err == nil {
		author = u.Summary()
	}
	c.JSON(http.StatusCreated, toCreatedPostResponse(post, author))
}

func (s *Server) toggleLike(c *gin.Context) {
	likes, err := s.svc.Graph.ToggleLike(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(likes))
}

func (s *Server) addComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comments, err := s.svc.Feed.AddComment(c.Request.Context(), c.Param("id"), currentUser(c), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCommentResponses(comments))
}

func (s *Server) deletePost(c *gin.Context) {
	if err := s.svc.Feed.DeletePost(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// --- NOTIFICATIONS ---

func (s *Server) listNotifications(c *gin.Context) {
	items, err := s.svc.Notifications.List(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNotificationResponses(items))
}

func (s *Server) unreadCount(c *gin.Context) {
	n, err := s.svc.Notifications.UnreadCount(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (s *Server) deleteNotifications(c *gin.Context) {
	if err := s.svc.Notifications.DeleteAll(c.Request.Context(), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifications deleted successfully"})
}
