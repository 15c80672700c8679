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
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/middleware"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/validation"
)

// GetAllComments GET /api/comments
func GetAllComments(c *gin.Context) {
	var comments []Comment
	err := database.DB.Preload("Author").Order("created_at DESC").Find(&comments).Error
	if err != nil {
		apperr.Respond(c, apperr.Internal("error retrieving comments", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// GetCommentByID GET /api/comments/:id
func GetCommentByID(c *gin.Context) {
	id := c.Param("id")
	if errs := validation.ID(id); len(errs) > 0 {
		apperr.Respond(c, apperr.Validation(errs))
		return
	}

	var cm Comment
	if err := database.DB.Preload("Author").First(&cm, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Respond(c, apperr.NotFound("comment", id))
		} else {
			apperr.Respond(c, apperr.Internal("error retrieving comment", err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": cm})
}

// CreateComment POST /api/comments/new
func CreateComment(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var input struct {
		PostID  string `json:"post_id"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperr.Respond(c, apperr.Validation([]apperr.FieldError{
			{Field: "body", Reason: "Invalid request body"},
		}))
		return
	}

	errs := validation.Comment(input.Content)
	if idErrs := validation.ID(input.PostID); len(idErrs) > 0 {
		errs = append(errs, apperr.FieldError{Field: "post_id", Reason: "Not a valid id"})
	}
	if len(errs) > 0 {
		apperr.Respond(c, apperr.Validation(errs))
		return
	}

	// A comment must never point at a post that is not there
	var count int64
	if err := database.DB.Model(&Post{}).Where("id = ?", input.PostID).Count(&count).Error; err != nil {
		apperr.Respond(c, apperr.Internal("error verifying post", err))
		return
	}
	if count == 0 {
		apperr.Respond(c, apperr.NotFound("post", input.PostID))
		return
	}

	newComment := Comment{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		PostID:    input.PostID,
		AuthorID:  identity.MemberID,
		Content:   input.Content,
	}
	if err := database.DB.Omit("Author").Create(&newComment).Error; err != nil {
		logs.LogJSON("ERROR", "Error creating comment", map[string]interface{}{
			"error":    err.Error(),
			"route":    c.FullPath(),
			"postID":   input.PostID,
			"memberID": identity.MemberID,
		})
		apperr.Respond(c, apperr.Internal("error creating comment", err))
		return
	}

	var created Comment
	if err := database.DB.Preload("Author").First(&created, "id = ?", newComment.ID).Error; err != nil {
		apperr.Respond(c, apperr.Internal("error retrieving created comment", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": created})
}

// UpdateComment PUT /api/comments/:id
func UpdateComment(c *gin.Context) {
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

	var input struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperr.Respond(c, apperr.Validation([]apperr.FieldError{
			{Field: "body", Reason: "Invalid request body"},
		}))
		return
	}
	if errs := validation.Comment(input.Content); len(errs) > 0 {
		apperr.Respond(c, apperr.Validation(errs))
		return
	}

	var cm Comment
	if err := database.DB.First(&cm, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Respond(c, apperr.NotFound("comment", id))
		} else {
			apperr.Respond(c, apperr.Internal("error retrieving comment", err))
		}
		return
	}
	if err := auth.Authorize(identity, cm); err != nil {
		apperr.Respond(c, err)
		return
	}

	if err := database.DB.Model(&cm).Update("content", input.Content).Error; err != nil {
		apperr.Respond(c, apperr.Internal("error updating comment", err))
		return
	}

	var updated Comment
	if err := database.DB.Preload("Author").First(&updated, "id = ?", id).Error; err != nil {
		apperr.Respond(c, apperr.Internal("error retrieving updated comment", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": updated})
}

// DeleteComment DELETE /api/comments/:id
func DeleteComment(c *gin.Context) {
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

	var cm Comment
	if err := database.DB.First(&cm, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Respond(c, apperr.NotFound("comment", id))
		} else {
			apperr.Respond(c, apperr.Internal("error retrieving comment", err))
		}
		return
	}
	if err := auth.Authorize(identity, cm); err != nil {
		apperr.Respond(c, err)
		return
	}

	if err := database.DB.Delete(&Comment{}, "id = ?", id).Error; err != nil {
		apperr.Respond(c, apperr.Internal("error deleting comment", err))
		return
	}

	c.Status(http.StatusNoContent)
}
