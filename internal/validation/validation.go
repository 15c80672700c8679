package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/apperr"
)

const (
	MaxTitleLength    = 50
	MaxPostLength     = 10000
	MaxCommentLength  = 1000
	MaxUsernameLength = 30
	MinPasswordLength = 8
)

// Categories is the closed set of post categories.
var Categories = []string{
	"Asia", "Africa", "North America", "South America",
	"Antarctica", "Europe", "Australia",
}

func validCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Each ruleset below is a pure function of its input and accumulates every
// violation so a caller can fix the whole request in one round trip.
// Length limits count characters, not bytes.

func ID(id string) []apperr.FieldError {
	var errs []apperr.FieldError
	if id == "" {
		errs = append(errs, apperr.FieldError{Field: "id", Reason: "Id is required"})
	} else if _, err := uuid.Parse(id); err != nil {
		errs = append(errs, apperr.FieldError{Field: "id", Reason: "Not a valid id"})
	}
	return errs
}

func Category(category string) []apperr.FieldError {
	var errs []apperr.FieldError
	if !validCategory(category) {
		errs = append(errs, apperr.FieldError{Field: "category", Reason: "Invalid category"})
	}
	return errs
}

func Post(title, category, content string) []apperr.FieldError {
	var errs []apperr.FieldError
	if title == "" {
		errs = append(errs, apperr.FieldError{Field: "title", Reason: "Title is required"})
	} else if utf8.RuneCountInString(title) > MaxTitleLength {
		errs = append(errs, apperr.FieldError{Field: "title", Reason: "Max title length is 50 characters"})
	}
	errs = append(errs, Category(category)...)
	if content == "" {
		errs = append(errs, apperr.FieldError{Field: "content", Reason: "Content is required"})
	} else if utf8.RuneCountInString(content) > MaxPostLength {
		errs = append(errs, apperr.FieldError{Field: "content", Reason: "Max post length is 10000 characters"})
	}
	return errs
}

func Comment(content string) []apperr.FieldError {
	var errs []apperr.FieldError
	if content == "" {
		errs = append(errs, apperr.FieldError{Field: "content", Reason: "Content is required"})
	} else if utf8.RuneCountInString(content) > MaxCommentLength {
		errs = append(errs, apperr.FieldError{Field: "content", Reason: "Max comment length is 1000 characters"})
	}
	return errs
}

func Rating(rating int) []apperr.FieldError {
	var errs []apperr.FieldError
	if rating < 1 || rating > 5 {
		errs = append(errs, apperr.FieldError{Field: "rating", Reason: "Rating must be between 1 and 5"})
	}
	return errs
}

func Signup(username, email, password string) []apperr.FieldError {
	var errs []apperr.FieldError
	if username == "" {
		errs = append(errs, apperr.FieldError{Field: "username", Reason: "Username is required"})
	} else if utf8.RuneCountInString(username) > MaxUsernameLength {
		errs = append(errs, apperr.FieldError{Field: "username", Reason: "Max username length is 30 characters"})
	}
	if email == "" {
		errs = append(errs, apperr.FieldError{Field: "email", Reason: "Email is required"})
	} else if !strings.Contains(email, "@") {
		errs = append(errs, apperr.FieldError{Field: "email", Reason: "Not a valid email"})
	}
	if len(password) < MinPasswordLength {
		errs = append(errs, apperr.FieldError{Field: "password", Reason: "Min password length is 8 characters"})
	}
	return errs
}
