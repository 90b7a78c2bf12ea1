package models

import "time"

// Day is a named collection round within a line. It is purely a grouping
// key for customers and carries no balance of its own.
type Day struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LineID    string    `gorm:"size:36;index;not null;uniqueIndex:idx_line_day_label" json:"lineId"`
	Label     string    `gorm:"size:32;not null;uniqueIndex:idx_line_day_label" json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}
