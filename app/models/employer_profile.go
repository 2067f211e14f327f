package models

import (
	"time"

	"gorm.io/gorm"
)

// EmployerProfile is the hiring-side account (household employer or staffing
// agency). Subscription and billing state hang off this profile, not the user.
type EmployerProfile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	CompanyName  string    `gorm:"type:varchar(200);not null" json:"company_name"`
	ContactEmail string    `gorm:"type:varchar(200);default:''" json:"contact_email"`
	Location     string    `gorm:"type:varchar(200);default:''" json:"location"`
	About        string    `gorm:"type:text" json:"about"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// GetEmployerProfileByUserID resolves the employer profile owned by a user.
func GetEmployerProfileByUserID(db *gorm.DB, userID uint) (*EmployerProfile, error) {
	var p EmployerProfile
	if err := db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetEmployerProfileByID resolves an employer profile by primary key.
func GetEmployerProfileByID(db *gorm.DB, id uint) (*EmployerProfile, error) {
	var p EmployerProfile
	if err := db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
