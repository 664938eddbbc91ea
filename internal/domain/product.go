package domain

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	ProductMinNameLength        = 3
	ProductMaxNameLength        = 50
	ProductMinDescriptionLength = 50
	ProductMaxDescriptionLength = 150
)

var (
	ErrProductInvalidName = ValidationError(
		"Product.InvalidName",
		fmt.Sprintf("Product name must be at least %d characters long and at most %d characters long.",
			ProductMinNameLength, ProductMaxNameLength))

	ErrProductInvalidDescription = ValidationError(
		"Product.InvalidDescription",
		fmt.Sprintf("Product description must be at least %d characters long and at most %d characters long.",
			ProductMinDescriptionLength, ProductMaxDescriptionLength))

	ErrProductNotFound = NotFoundError("Product.NotFound", "Product not found")
)

// Product represents the product entity
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Barcode     string    `json:"barcode"`
	Category    string    `json:"category"`
	SubCategory string    `json:"subCategory"`
	Brand       string    `json:"brand"`
	Supplier    string    `json:"supplier"`
}

func (p Product) EntityID() uuid.UUID { return p.ID }

// NewProduct validates the fields and builds a product. A nil id gets a fresh
// identifier. All violations are reported together.
func NewProduct(name, description, barcode, category, subCategory, brand, supplier string, id *uuid.UUID) Result[Product] {
	var errs []Error

	if n := utf8.RuneCountInString(name); n < ProductMinNameLength || n > ProductMaxNameLength {
		errs = append(errs, ErrProductInvalidName)
	}
	if n := utf8.RuneCountInString(description); n < ProductMinDescriptionLength || n > ProductMaxDescriptionLength {
		errs = append(errs, ErrProductInvalidDescription)
	}
	if len(errs) > 0 {
		return Fail[Product](errs...)
	}

	return Ok(Product{
		ID:          idOrNew(id),
		Name:        name,
		Description: description,
		Barcode:     barcode,
		Category:    category,
		SubCategory: subCategory,
		Brand:       brand,
		Supplier:    supplier,
	})
}

func idOrNew(id *uuid.UUID) uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return uuid.New()
	}
	return *id
}
