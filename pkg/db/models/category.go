package models

import "github.com/google/uuid"

// Category is a node in the shared product taxonomy.
type Category struct {
	ID       uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name     string     `gorm:"column:name;not null"`
	ParentID *uuid.UUID `gorm:"column:parent_id;type:uuid;index"`
	Parent   *Category  `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}
