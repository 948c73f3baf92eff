package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/ports"
)

type Services struct {
	Identity      ports.IdentityService
	Users         ports.UserService
	Graph         ports.GraphService
	Feed          ports.FeedService
	Notifications ports.NotificationService
}

type CookieConfig struct {
	TTL    time.Duration
	Secure bool
}

type Server struct {
	svc    Services
	cookie CookieConfig
}

func NewServer(svc Services, cookie CookieConfig) *Server {
	return &Server{svc: svc, cookie: cookie}
}

// Router builds the gin engine with every route of the API.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	auth := requireAuth(s.svc.Identity)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", s.signup)
		authGroup.POST("/login", s.login)
		authGroup.POST("/logout", auth, s.logout)
		authGroup.GET("/me", auth, s.me)
	}

	users := api.Group("/users", auth)
	{
		users.GET("/profile/:username", s.getProfile)
		users.GET("/suggested", s.suggested)
		users.POST("/follow/:id", s.toggleFollow)
		users.POST("/update", s.updateProfile)
		users.GET("/followers/:username", s.followers)
		users.GET("/following/:username", s.following)
		users.GET("/search", s.search)
		users.GET("/mentions", s.searchMentions)
	}

	posts := api.Group("/posts", auth)
	{
		posts.GET("/all", s.listAll)
		posts.GET("/following", s.listFollowing)
		posts.GET("/likes/:id", s.listLiked)
		posts.GET("/user/:username", s.listByAuthor)
		posts.POST("/create", s.createPost)
		posts.POST("/like/:id", s.toggleLike)
		posts.POST("/comment/:id", s.addComment)
		posts.DELETE("/:id", s.deletePost)
	}

	notifications := api.Group("/notifications", auth)
	{
		notifications.GET("", s.listNotifications)
		notifications.GET("/unread", s.unreadCount)
		notifications.DELETE("", s.deleteNotifications)
	}

	return router
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cookieName, token, int(s.cookie.TTL.Seconds()), "/", "", s.cookie.Secure, true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cookieName, "", -1, "/", "", s.cookie.Secure, true)
}
