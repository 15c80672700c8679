package post

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/auth"
)

func TestRatePostOutOfRange(t *testing.T) {
	mock := setupMockDB(t)
	identity := auth.Identity{MemberID: uuid.New().String()}
	postID := uuid.New().String()

	for _, body := range []string{`{"rating":0}`, `{"rating":6}`} {
		mock.ExpectQuery(`SELECT count`).WillReturnRows(
			sqlmock.NewRows([]string{"count"}).AddRow(1))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/posts/"+postID+"/rate",
			strings.NewReader(body))
		testRouter(&identity).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Rating must be between 1 and 5")
	}
}

func TestRatePostAlreadyRated(t *testing.T) {
	mock := setupMockDB(t)
	memberID := uuid.New().String()
	postID := uuid.New().String()
	identity := auth.Identity{MemberID: memberID}

	mock.ExpectQuery(`SELECT count`).WillReturnRows(
		sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "posts"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "created_at", "author_id", "category", "title", "content"}).
			AddRow(postID, time.Now(), memberID, "Africa", "Trip", "hello"))
	// Membership row already present blocks the second rating
	mock.ExpectQuery(`SELECT \* FROM "member_rated_posts"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "created_at", "member_id", "post_id"}).
			AddRow(uuid.New().String(), time.Now(), memberID, postID))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts/"+postID+"/rate",
		strings.NewReader(`{"rating":4}`))
	testRouter(&identity).ServeHTTP(w, req)

	// Rejected without touching either entity
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already rated")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatePostMissingPost(t *testing.T) {
	mock := setupMockDB(t)
	identity := auth.Identity{MemberID: uuid.New().String()}
	postID := uuid.New().String()

	mock.ExpectQuery(`SELECT count`).WillReturnRows(
		sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "posts"`).WillReturnError(gorm.ErrRecordNotFound)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts/"+postID+"/rate",
		strings.NewReader(`{"rating":4}`))
	testRouter(&identity).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatePostSuccess(t *testing.T) {
	mock := setupMockDB(t)
	memberID := uuid.New().String()
	postID := uuid.New().String()
	identity := auth.Identity{MemberID: memberID}

	mock.ExpectQuery(`SELECT count`).WillReturnRows(
		sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "posts"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "created_at", "author_id", "category", "title", "content"}).
			AddRow(postID, time.Now(), memberID, "Africa", "Trip", "hello"))
	mock.ExpectQuery(`SELECT \* FROM "member_rated_posts"`).WillReturnError(gorm.ErrRecordNotFound)

	// Two independent appends: the post's rating, then the member's set
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "post_ratings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "member_rated_posts"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Updated post returned populated
	mock.ExpectQuery(`SELECT \* FROM "posts"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "created_at", "author_id", "category", "title", "content"}).
			AddRow(postID, time.Now(), memberID, "Africa", "Trip", "hello"))
	mock.ExpectQuery(`SELECT \* FROM "members"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "created_at", "username", "email", "password_hash"}).
			AddRow(memberID, time.Now(), "traveler", "t@example.com", "hash"))
	mock.ExpectQuery(`SELECT \* FROM "comments"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "created_at", "post_id", "author_id", "content"}))
	mock.ExpectQuery(`SELECT \* FROM "post_ratings"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "created_at", "post_id", "value"}).
			AddRow(uuid.New().String(), time.Now(), postID, 4))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts/"+postID+"/rate",
		strings.NewReader(`{"rating":4}`))
	testRouter(&identity).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"value":4`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatePostMemberStateUpdateFails(t *testing.T) {
	mock := setupMockDB(t)
	memberID := uuid.New().String()
	postID := uuid.New().String()
	identity := auth.Identity{MemberID: memberID}

	mock.ExpectQuery(`SELECT count`).WillReturnRows(
		sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "posts"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "created_at", "author_id", "category", "title", "content"}).
			AddRow(postID, time.Now(), memberID, "Africa", "Trip", "hello"))
	mock.ExpectQuery(`SELECT \* FROM "member_rated_posts"`).WillReturnError(gorm.ErrRecordNotFound)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "post_ratings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// The rating row is already committed when the rated-set append breaks:
	// a phantom rating the member's set does not record. That must be
	// reported, never swallowed as a success.
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "member_rated_posts"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts/"+postID+"/rate",
		strings.NewReader(`{"rating":4}`))
	testRouter(&identity).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal")
	assert.Contains(t, w.Body.String(), "member rating state update failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}
