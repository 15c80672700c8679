package post

import (
	"time"

	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/member"
)

type Post struct {
	ID        string        `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time     `json:"date_posted"`
	AuthorID  string        `json:"-" gorm:"index"`
	Author    member.Member `json:"author" gorm:"foreignKey:AuthorID"`
	Category  string        `json:"category"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Comments  []Comment     `json:"comments" gorm:"foreignKey:PostID"`
	Ratings   []Rating      `json:"rating" gorm:"foreignKey:PostID"`
}

func (p Post) OwnedBy() string {
	return p.AuthorID
}

// Rating is one appended score on a post. One row per append keeps the
// write atomic per document without a multi-table transaction.
type Rating struct {
	ID        string    `json:"-" gorm:"primaryKey"`
	CreatedAt time.Time `json:"-"`
	PostID    string    `json:"-" gorm:"index"`
	Value     int       `json:"value"`
}

func (Rating) TableName() string {
	return "post_ratings"
}
