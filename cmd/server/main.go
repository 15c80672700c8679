package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/auth"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/config"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/database"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/member"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/middleware"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/post"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		panic("DATABASE_URL missing")
	}
	if cfg.JWTSecret == "" {
		panic("JWT_SECRET missing")
	}

	database.Connect(cfg.DatabaseURL)

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	api.POST("/auth/signup", auth.Signup)
	api.POST("/auth/login", auth.Login)

	api.GET("/members/:id", member.GetMember)

	api.GET("/posts", post.GetAllPosts)
	api.GET("/posts/:id", post.GetPostByID)
	api.GET("/posts/category/:category", post.GetPostsByCategory)

	api.GET("/comments", post.GetAllComments)
	api.GET("/comments/:id", post.GetCommentByID)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth())

	authed.POST("/posts/new", post.CreatePost)
	authed.PUT("/posts/:id", post.UpdatePost)
	authed.DELETE("/posts/:id", post.DeletePost)
	authed.POST("/posts/:id/rate", post.RatePost)

	authed.POST("/comments/new", post.CreateComment)
	authed.PUT("/comments/:id", post.UpdateComment)
	authed.DELETE("/comments/:id", post.DeleteComment)

	if err := r.Run(":" + cfg.Port); err != nil {
		panic(err)
	}
}
