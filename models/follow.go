package models

// Follow links a follower (UserID) to a followed author (AuthorID). The pair is unique.
type Follow struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_follow_user_author" json:"user_id"`
	AuthorID uint `gorm:"not null;uniqueIndex:idx_follow_user_author;index" json:"author_id"`
	User     User `gorm:"foreignKey:UserID" json:"-"`
	Author   User `gorm:"foreignKey:AuthorID" json:"-"`
}
