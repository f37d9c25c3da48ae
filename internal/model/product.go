package model

import "time"

// Product represents a single product in the catalogue.
type Product struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Price      float64   `json:"price" db:"price"`
	CategoryID string    `json:"categoryId" db:"category_id"`
	OnSale     bool      `json:"onSale" db:"on_sale"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Bundle represents a curated set of products sold as one unit.
type Bundle struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Price      float64   `json:"price" db:"price"`
	CategoryID string    `json:"categoryId" db:"category_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
