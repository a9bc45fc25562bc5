package model

import "time"

type User struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email     string    `json:"email" gorm:"size:254"`
	FirstName string    `json:"firstName" gorm:"size:150"`
	LastName  string    `json:"lastName" gorm:"size:150"`
	Password  string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// FullName returns "first last", or the username when both are empty.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}

type Group struct {
	Id          int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string `json:"title" gorm:"size:200;not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;size:50;not null"`
	Description string `json:"description"`
}

// Post is ordered newest first; PubDate is written once by gorm on create.
type Post struct {
	Id       int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Text     string    `json:"text" gorm:"not null"`
	PubDate  time.Time `json:"pubDate" gorm:"autoCreateTime;index"`
	AuthorId int       `json:"authorId" gorm:"not null;index"`
	Author   User      `json:"author" gorm:"foreignKey:AuthorId;constraint:OnDelete:CASCADE"`
	GroupId  *int      `json:"groupId" gorm:"index"`
	Group    *Group    `json:"group,omitempty" gorm:"foreignKey:GroupId;constraint:OnDelete:SET NULL"`
}

type PasswordResetToken struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserId    int       `json:"userId" gorm:"not null;index"`
	User      User      `json:"-" gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"index"`
	Used      bool      `json:"used"`
}

type Setting struct {
	Id    int    `json:"id" form:"id" gorm:"primaryKey;autoIncrement"`
	Key   string `json:"key" form:"key"`
	Value string `json:"value" form:"value"`
}
