package router

import (
	"net/http"
	"time"

	"Volunteer_Hub/internal/handler"
	"Volunteer_Hub/internal/middleware"
	"Volunteer_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type Options struct {
	Posts       *service.PostService
	Requests    *service.RequestService
	TokenSecret []byte
	TokenTTL    time.Duration
	Production  bool
	CORSOrigins []string
	// Now 为 nil 时使用 time.Now
	Now func() time.Time
}

func InitRouter(opts Options) *gin.Engine {
	handler.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(opts.CORSOrigins))

	auth := handler.NewAuthHandler(opts.TokenSecret, opts.TokenTTL, opts.Production, opts.Now)
	post := handler.NewPostHandler(opts.Posts)
	request := handler.NewRequestHandler(opts.Requests)
	authRequired := middleware.AuthMiddleware(opts.TokenSecret, opts.Now)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "The volunteer-management server")
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// token 相关接口
	r.POST("/jwt", auth.IssueToken)
	r.GET("/jwt-logout", auth.Logout)

	// 公开接口
	r.GET("/volunteer-data", post.SearchPosts)
	r.POST("/volunteer-request", request.SubmitRequest)
	r.DELETE("/data-delete/:id", post.DeletePost)
	r.DELETE("/my-request-data-cancel/:id", request.CancelRequest)

	// 登录态接口
	authed := r.Group("/")
	authed.Use(authRequired)
	{
		authed.POST("/add-volunteer", post.CreatePost)
		authed.GET("/get-volunteer", post.ListPosts)
		authed.GET("/volunteer-get/:id", post.GetPost)
		authed.PUT("/update-data/:id", post.UpdatePost)
		authed.GET("/my-posts/:email", middleware.OwnerOnly("email"), post.ListMyPosts)
		authed.GET("/my-request-posts/:email", middleware.OwnerOnly("email"), request.ListMyRequests)
	}

	return r
}
