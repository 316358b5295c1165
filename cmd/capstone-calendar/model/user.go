package model

import "time"

type User struct {
	ID         string    `gorm:"column:id;primaryKey" json:"id"`
	Email      string    `gorm:"column:email" json:"email"`
	Name       string    `gorm:"column:name" json:"name"`
	AvatarURL  string    `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	CreateDate time.Time `gorm:"column:create_date" json:"create_date"`
	UpdateDate time.Time `gorm:"column:update_date" json:"update_date"`
}

func (m *User) TableName() string {
	return "users"
}

// GoogleCredential holds the OAuth tokens used to call the calendar API on
// the user's behalf. Tokens are never serialized.
type GoogleCredential struct {
	ID           string     `gorm:"column:id;primaryKey" json:"id"`
	UserID       string     `gorm:"column:user_id" json:"user_id"`
	GoogleID     string     `gorm:"column:google_id" json:"google_id"`
	AccessToken  string     `gorm:"column:access_token" json:"-"`
	RefreshToken string     `gorm:"column:refresh_token" json:"-"`
	Scope        string     `gorm:"column:scope" json:"scope"`
	ExpiresAt    *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreateDate   time.Time  `gorm:"column:create_date" json:"create_date"`
	UpdateDate   time.Time  `gorm:"column:update_date" json:"update_date"`
}

func (m *GoogleCredential) TableName() string {
	return "google_credentials"
}
