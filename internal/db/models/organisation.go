package models

import "time"

// Organisation owns teams. Slugs are unique.
type Organisation struct {
	ID        uint   `gorm:"primaryKey"`
	Slug      string `gorm:"size:50;not null;uniqueIndex"`
	Name      string `gorm:"size:190;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Organisation model.
func (Organisation) TableName() string {
	return "organisations"
}
