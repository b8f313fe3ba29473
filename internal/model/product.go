package model

import "time"

// Product represents a scarf in the catalogue with bilingual display names.
type Product struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	NameAr       string    `json:"nameAr" db:"name_ar"`
	Price        float64   `json:"price" db:"price"`
	Stock        int       `json:"stock" db:"stock"`
	Image        string    `json:"image,omitempty" db:"image"`
	Category     string    `json:"category" db:"category"`
	Subcategory  string    `json:"subcategory,omitempty" db:"subcategory"`
	Colors       []Color   `json:"colors,omitempty" db:"colors"`
	IsNewArrival bool      `json:"isNewArrival" db:"is_new_arrival"`
	IsTopSeller  bool      `json:"isTopSeller" db:"is_top_seller"`
	IsOnSale     bool      `json:"isOnSale" db:"is_on_sale"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Color is a selectable product variant.
type Color struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	NameAr string `json:"nameAr"`
}

// HasColor reports whether key matches one of the product's colors.
func (p *Product) HasColor(key string) bool {
	for _, c := range p.Colors {
		if c.Key == key {
			return true
		}
	}
	return false
}
