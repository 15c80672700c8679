package post

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/apperr"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/database"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/logs"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/member"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/validation"
)

// RatePost POST /api/posts/:id/rate
//
// The rating append and the member's rated-set append are two independent
// writes with no cross-table transaction. If the second write fails the post
// holds a rating the member's set does not record; that is reported to the
// caller and logged for reconciliation rather than hidden.
func RatePost(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if errs := validation.ID(id); len(errs) > 0 {
		apperr.Respond(c, apperr.Validation(errs))
		return
	}

	var input struct {
		Rating int `json:"rating"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperr.Respond(c, apperr.Validation([]apperr.FieldError{
			{Field: "body", Reason: "Invalid request body"},
		}))
		return
	}
	if errs := validation.Rating(input.Rating); len(errs) > 0 {
		apperr.Respond(c, apperr.Validation(errs))
		return
	}

	var p Post
	if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Respond(c, apperr.NotFound("post", id))
		} else {
			apperr.Respond(c, apperr.Internal("error retrieving post", err))
		}
		return
	}

	// Membership check before append keeps a member's rating of a post
	// exactly-once
	var rated member.RatedPost
	err := database.DB.First(&rated, "member_id = ? AND post_id = ?", identity.MemberID, id).Error
	if err == nil {
		apperr.Respond(c, apperr.Validation([]apperr.FieldError{
			{Field: "rating", Reason: "You have already rated this post"},
		}))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		apperr.Respond(c, apperr.Internal("error checking rating state", err))
		return
	}

	newRating := Rating{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		PostID:    id,
		Value:     input.Rating,
	}
	if err := database.DB.Create(&newRating).Error; err != nil {
		apperr.Respond(c, apperr.Internal("error recording rating", err))
		return
	}

	newRated := member.RatedPost{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		MemberID:  identity.MemberID,
		PostID:    id,
	}
	if err := database.DB.Create(&newRated).Error; err != nil {
		// Phantom rating: the post recorded a score the member's set does
		// not know about, which would permit a future duplicate
		logs.LogJSON("ERROR", "Rating recorded but member rating state update failed", map[string]interface{}{
			"error":    err.Error(),
			"route":    c.FullPath(),
			"postID":   id,
			"memberID": identity.MemberID,
		})
		apperr.Respond(c, apperr.Internal("rating recorded but member rating state update failed", err))
		return
	}

	var updated Post
	if err := populated(database.DB).First(&updated, "id = ?", id).Error; err != nil {
		apperr.Respond(c, apperr.Internal("error retrieving updated post", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": updated})
}
