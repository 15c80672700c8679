package post

import (
	"time"

	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/member"
)

type Comment struct {
	ID        string        `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time     `json:"date_posted"`
	PostID    string        `json:"post_id" gorm:"index"`
	AuthorID  string        `json:"-" gorm:"index"`
	Author    member.Member `json:"author" gorm:"foreignKey:AuthorID"`
	Content   string        `json:"content"`
}

func (cm Comment) OwnedBy() string {
	return cm.AuthorID
}
