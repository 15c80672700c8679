package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/apperr"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/database"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/logs"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/member"
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/validation"
)

// Signup POST /api/auth/signup
func Signup(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperr.Respond(c, apperr.Validation([]apperr.FieldError{
			{Field: "body", Reason: "Invalid request body"},
		}))
		return
	}

	if errs := validation.Signup(input.Username, input.Email, input.Password); len(errs) > 0 {
		apperr.Respond(c, apperr.Validation(errs))
		return
	}

	var taken []apperr.FieldError
	var count int64
	if err := database.DB.Model(&member.Member{}).
		Where("username = ?", input.Username).
		Count(&count).Error; err != nil {
		apperr.Respond(c, apperr.Internal("error checking existing members", err))
		return
	}
	if count > 0 {
		taken = append(taken, apperr.FieldError{Field: "username", Reason: "Username already in use"})
	}
	if err := database.DB.Model(&member.Member{}).
		Where("email = ?", input.Email).
		Count(&count).Error; err != nil {
		apperr.Respond(c, apperr.Internal("error checking existing members", err))
		return
	}
	if count > 0 {
		taken = append(taken, apperr.FieldError{Field: "email", Reason: "Email already in use"})
	}
	if len(taken) > 0 {
		apperr.Respond(c, apperr.Validation(taken))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		apperr.Respond(c, apperr.Internal("error creating member", err))
		return
	}

	newMember := member.Member{
		ID:           uuid.New().String(),
		CreatedAt:    time.Now(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	if err := database.DB.Create(&newMember).Error; err != nil {
		logs.LogJSON("ERROR", "Error creating member", map[string]interface{}{
			"error": err.Error(),
			"route": c.FullPath(),
		})
		apperr.Respond(c, apperr.Internal("error creating member", err))
		return
	}

	token, err := SignToken(newMember.ID)
	if err != nil {
		apperr.Respond(c, apperr.Internal("error issuing token", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"member": newMember,
		"token":  token,
	})
}

// Login POST /api/auth/login
func Login(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Username == "" || input.Password == "" {
		apperr.Respond(c, apperr.Validation([]apperr.FieldError{
			{Field: "body", Reason: "Username and password are required"},
		}))
		return
	}

	var m member.Member
	err := database.DB.First(&m, "username = ?", input.Username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same response as a wrong password so usernames cannot be probed
			apperr.Respond(c, apperr.Unauthenticated("invalid username or password"))
		} else {
			apperr.Respond(c, apperr.Internal("error retrieving member", err))
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(input.Password)); err != nil {
		apperr.Respond(c, apperr.Unauthenticated("invalid username or password"))
		return
	}

	token, err := SignToken(m.ID)
	if err != nil {
		apperr.Respond(c, apperr.Internal("error issuing token", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"member": m,
		"token":  token,
	})
}
