package users

import "time"

type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `json:"name"`
	Email     string    `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Role      string    `gorm:"type:varchar(16);not null;default:'USER'" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
