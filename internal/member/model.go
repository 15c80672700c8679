package member

import "time"

type Member struct {
	ID           string      `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time   `json:"date_joined"`
	Username     string      `json:"username" gorm:"uniqueIndex"`
	Email        string      `json:"email" gorm:"uniqueIndex"`
	PasswordHash string      `json:"-"`
	HasRated     []RatedPost `json:"has_rated,omitempty" gorm:"foreignKey:MemberID"`
}

// RatedPost records one post a member has already rated. Membership in this
// set is what blocks a second rating of the same post.
type RatedPost struct {
	ID        string    `json:"-" gorm:"primaryKey"`
	CreatedAt time.Time `json:"-"`
	MemberID  string    `json:"-" gorm:"index"`
	PostID    string    `json:"post_id" gorm:"index"`
}

func (RatedPost) TableName() string {
	return "member_rated_posts"
}
