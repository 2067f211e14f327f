package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Job listing status strings, persisted verbatim.
const (
	JobStatusDraft   = "DRAFT"
	JobStatusActive  = "ACTIVE"
	JobStatusFilled  = "FILLED"
	JobStatusExpired = "EXPIRED"
	JobStatusClosed  = "CLOSED"
)

// Job is a single listing posted by an employer profile. Posting a job
// consumes one job credit unless an unlimited-posting entitlement is active.
type Job struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UUID              string     `gorm:"type:varchar(36);not null;uniqueIndex" json:"uuid"`
	EmployerProfileID uint       `gorm:"not null;index:idx_jobs_employer_status,priority:1" json:"employer_profile_id"`
	Title             string     `gorm:"type:varchar(200);not null" json:"title"`
	Description       string     `gorm:"type:text" json:"description"`
	Location          string     `gorm:"type:varchar(200);default:''" json:"location"`
	Status            string     `gorm:"type:varchar(16);not null;default:'ACTIVE';index:idx_jobs_employer_status,priority:2" json:"status"`
	ExpiresAt         *time.Time `gorm:"type:timestamp;default:null;index" json:"expires_at,omitempty"`
	ViewCount         uint       `gorm:"not null;default:0" json:"view_count"`
	CreatedAt         time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a public UUID if none was set.
func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.UUID == "" {
		j.UUID = uuid.New().String()
	}
	return nil
}
