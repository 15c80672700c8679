package member

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/apperr"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/database"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/logs"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/validation"
)

// GetMember GET /api/members/:id
func GetMember(c *gin.Context) {
	id := c.Param("id")
	if errs := validation.ID(id); len(errs) > 0 {
		apperr.Respond(c, apperr.Validation(errs))
		return
	}

	var m Member
	err := database.DB.Preload("HasRated").First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Respond(c, apperr.NotFound("member", id))
		} else {
			logs.LogJSON("ERROR", "Database error", map[string]interface{}{
				"error":    err.Error(),
				"route":    c.FullPath(),
				"memberID": id,
			})
			apperr.Respond(c, apperr.Internal("error retrieving member", err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"member": m})
}

// Exists reports whether a member with the id is still live. A token can
// outlive its account, so authenticated operations guard on this before
// writing anything keyed by the member.
func Exists(memberID string) (bool, error) {
	var count int64
	err := database.DB.Model(&Member{}).Where("id = ?", memberID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
