package models

// ContactMessage is a stored contact-form submission.
type ContactMessage struct {
	ID        string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `gorm:"type:text" json:"message"`
	CreatedAt int64  `gorm:"autoCreateTime" json:"created_at"`
}
