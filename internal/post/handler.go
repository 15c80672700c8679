package post

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/apperr"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/auth"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/database"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/logs"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/member"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/middleware"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/validation"
)

type postInput struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

// populated resolves author usernames and nested comments, the same shape
// the Mongo populate calls used to return.
func populated(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Comments.Author").
		Preload("Ratings")
}

// requireIdentity fetches the Identity set by the auth middleware and
// confirms the member behind it still exists.
func requireIdentity(c *gin.Context) (auth.Identity, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		apperr.Respond(c, apperr.Unauthenticated("access denied"))
		return auth.Identity{}, false
	}
	exists, err := member.Exists(identity.MemberID)
	if err != nil {
		logs.LogJSON("ERROR", "Database error", map[string]interface{}{
			"error":    err.Error(),
			"route":    c.FullPath(),
			"memberID": identity.MemberID,
		})
		apperr.Respond(c, apperr.Internal("error verifying member", err))
		return auth.Identity{}, false
	}
	if !exists {
		apperr.Respond(c, apperr.NotFound("member", identity.MemberID))
		return auth.Identity{}, false
	}
	return identity, true
}

// GetAllPosts GET /api/posts
func GetAllPosts(c *gin.Context) {
	var posts []Post
	if err := populated(database.DB).Order("created_at DESC").Find(&posts).Error; err != nil {
		apperr.Respond(c, apperr.Internal("error retrieving posts", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPostByID GET /api/posts/:id
func GetPostByID(c *gin.Context) {
	id := c.Param("id")
	if errs := validation.ID(id); len(errs) > 0 {
		apperr.Respond(c, apperr.Validation(errs))
		return
	}

	var p Post
	if err := populated(database.DB).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Respond(c, apperr.NotFound("post", id))
		} else {
			apperr.Respond(c, apperr.Internal("error retrieving post", err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": p})
}

// GetPostsByCategory GET /api/posts/category/:category
func GetPostsByCategory(c *gin.Context) {
	category := c.Param("category")
	if errs := validation.Category(category); len(errs) > 0 {
		apperr.Respond(c, apperr.Validation(errs))
		return
	}

	var posts []Post
	err := populated(database.DB).
		Where("category = ?", category).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		apperr.Respond(c, apperr.Internal("error retrieving posts", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// CreatePost POST /api/posts/new
func CreatePost(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var input postInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperr.Respond(c, apperr.Validation([]apperr.FieldError{
			{Field: "body", Reason: "Invalid request body"},
		}))
		return
	}
	if errs := validation.Post(input.Title, input.Category, input.Content); len(errs) > 0 {
		apperr.Respond(c, apperr.Validation(errs))
		return
	}

	newPost := Post{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		AuthorID:  identity.MemberID,
		Category:  input.Category,
		Title:     input.Title,
		Content:   input.Content,
	}
	if err := database.DB.Omit("Author", "Comments", "Ratings").Create(&newPost).Error; err != nil {
		logs.LogJSON("ERROR", "Error creating post", map[string]interface{}{
			"error":    err.Error(),
			"route":    c.FullPath(),
			"memberID": identity.MemberID,
		})
		apperr.Respond(c, apperr.Internal("error creating post", err))
		return
	}

	var created Post
	if err := populated(database.DB).First(&created, "id = ?", newPost.ID).Error; err != nil {
		apperr.Respond(c, apperr.Internal("error retrieving created post", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": created})
}

// UpdatePost PUT /api/posts/:id
func UpdatePost(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		apperr.Respond(c, apperr.Unauthenticated("access denied"))
		return
	}

	id := c.Param("id")
	if errs := validation.ID(id); len(errs) > 0 {
		apperr.Respond(c, apperr.Validation(errs))
		return
	}

	var input postInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperr.Respond(c, apperr.Validation([]apperr.FieldError{
			{Field: "body", Reason: "Invalid request body"},
		}))
		return
	}
	if errs := validation.Post(input.Title, input.Category, input.Content); len(errs) > 0 {
		apperr.Respond(c, apperr.Validation(errs))
		return
	}

	// Existence guard before the ownership check so a 403 only ever refers
	// to a post the caller already knows exists
	var p Post
	if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Respond(c, apperr.NotFound("post", id))
		} else {
			apperr.Respond(c, apperr.Internal("error retrieving post", err))
		}
		return
	}
	if err := auth.Authorize(identity, p); err != nil {
		apperr.Respond(c, err)
		return
	}

	err := database.DB.Model(&p).Updates(map[string]interface{}{
		"title":    input.Title,
		"category": input.Category,
		"content":  input.Content,
	}).Error
	if err != nil {
		apperr.Respond(c, apperr.Internal("error updating post", err))
		return
	}

	var updated Post
	if err := populated(database.DB).First(&updated, "id = ?", id).Error; err != nil {
		apperr.Respond(c, apperr.Internal("error retrieving updated post", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": updated})
}

// DeletePost DELETE /api/posts/:id
//
// Cascade order: capture the post with its comment ids, delete the post,
// then delete the captured comments. The snapshot is the only source of
// which comments to remove once the post row is gone.
func DeletePost(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		apperr.Respond(c, apperr.Unauthenticated("access denied"))
		return
	}

	id := c.Param("id")
	if errs := validation.ID(id); len(errs) > 0 {
		apperr.Respond(c, apperr.Validation(errs))
		return
	}

	var p Post
	if err := database.DB.Preload("Comments").First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Respond(c, apperr.NotFound("post", id))
		} else {
			apperr.Respond(c, apperr.Internal("error retrieving post", err))
		}
		return
	}
	if err := auth.Authorize(identity, p); err != nil {
		apperr.Respond(c, err)
		return
	}

	commentIDs := make([]string, 0, len(p.Comments))
	for _, cm := range p.Comments {
		commentIDs = append(commentIDs, cm.ID)
	}

	if err := database.DB.Delete(&Post{}, "id = ?", id).Error; err != nil {
		apperr.Respond(c, apperr.Internal("error deleting post", err))
		return
	}

	if len(commentIDs) > 0 {
		if err := database.DB.Where("id IN ?", commentIDs).Delete(&Comment{}).Error; err != nil {
			// The post is already gone, so these comments are now orphaned.
			// Report the partial failure instead of claiming success.
			logs.LogJSON("ERROR", "Cascade comment delete failed", map[string]interface{}{
				"error":      err.Error(),
				"route":      c.FullPath(),
				"postID":     id,
				"commentIDs": commentIDs,
			})
			apperr.Respond(c, apperr.Internal("post deleted but comment cleanup failed", err))
			return
		}
	}

	if err := database.DB.Where("post_id = ?", id).Delete(&Rating{}).Error; err != nil {
		logs.LogJSON("ERROR", "Cascade rating delete failed", map[string]interface{}{
			"error":  err.Error(),
			"route":  c.FullPath(),
			"postID": id,
		})
		apperr.Respond(c, apperr.Internal("post deleted but rating cleanup failed", err))
		return
	}

	// Raters must not keep a dangling rated-set entry for a post that no
	// longer exists, or they could never rate its id again
	if err := database.DB.Where("post_id = ?", id).Delete(&member.RatedPost{}).Error; err != nil {
		logs.LogJSON("ERROR", "Cascade rated-set delete failed", map[string]interface{}{
			"error":  err.Error(),
			"route":  c.FullPath(),
			"postID": id,
		})
		apperr.Respond(c, apperr.Internal("post deleted but rated-set cleanup failed", err))
		return
	}

	c.Status(http.StatusNoContent)
}
