package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// assignID fills a missing primary key so rows can be created on databases
// without a uuid default (sqlite in tests).
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error      { assignID(&u.ID); return nil }
func (v *Vendor) BeforeCreate(*gorm.DB) error    { assignID(&v.ID); return nil }
func (c *Category) BeforeCreate(*gorm.DB) error  { assignID(&c.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error   { assignID(&p.ID); return nil }
func (c *Cart) BeforeCreate(*gorm.DB) error      { assignID(&c.ID); return nil }
func (i *CartItem) BeforeCreate(*gorm.DB) error  { assignID(&i.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error     { assignID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(*gorm.DB) error { assignID(&i.ID); return nil }

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&User{},
		&Vendor{},
		&Category{},
		&Product{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
	}
}
