package models

// User is an account allowed to submit scans. Accounts and their API tokens
// are provisioned out of band; this service only resolves tokens to owners.
type User struct {
	ID        string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email     string `gorm:"uniqueIndex" json:"email"`
	APIToken  string `gorm:"uniqueIndex;column:api_token" json:"-"`
	CreatedAt int64  `gorm:"autoCreateTime" json:"created_at"`
}
