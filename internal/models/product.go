package models

import (
	"encoding/json"
	"time"
)

// Categories lists the allowed product categories in display order.
var Categories = []string{
	"Room Essentials",
	"Books & Study Material",
	"Electronics",
	"Other Useful Stuff",
}

// Conditions lists the allowed product conditions.
var Conditions = []string{"New", "Like New", "Used"}

// Product represents a listing posted by a seller.
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Price       float64    `json:"price"`
	Condition   string     `json:"condition"`
	Description string     `json:"description"`
	Images      []string   `json:"images"`
	SellerID    string     `json:"seller_id"`
	SellerName  string     `json:"seller_name"`
	SellerEmail string     `json:"seller_email"`
	IsSold      bool       `json:"is_sold"`
	SoldAt      *time.Time `json:"sold_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// JSON string field for DB storage
	ImagesJSON string `json:"-"`
}

// PrepareForSave marshals the image list for DB storage.
func (p *Product) PrepareForSave() {
	if p.Images == nil {
		p.Images = []string{}
	}
	imagesBytes, _ := json.Marshal(p.Images)
	p.ImagesJSON = string(imagesBytes)
}

// PrepareForAPI unmarshals the stored image list.
func (p *Product) PrepareForAPI() {
	if p.ImagesJSON != "" {
		json.Unmarshal([]byte(p.ImagesJSON), &p.Images)
	}
	if p.Images == nil {
		p.Images = []string{}
	}
}

// ProductInput is the body of a create request.
type ProductInput struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Condition   string   `json:"condition"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

// ProductUpdate is the body of a partial update; nil fields are left alone.
type ProductUpdate struct {
	Name        *string   `json:"name"`
	Category    *string   `json:"category"`
	Price       *float64  `json:"price"`
	Condition   *string   `json:"condition"`
	Description *string   `json:"description"`
	Images      *[]string `json:"images"`
	IsSold      *bool     `json:"is_sold"`
}

// ProductFilter holds the list query parameters.
type ProductFilter struct {
	Page        int
	Limit       int
	Category    string
	Condition   string
	Search      string
	MinPrice    *float64
	MaxPrice    *float64
	ExcludeSold bool
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}
