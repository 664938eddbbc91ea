package dto

import (
	"github.com/google/uuid"
	"github.com/mrops-br/stock-manager-api/internal/domain"
)

// ProductRequest is the body of product create and upsert calls.
type ProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Barcode     string `json:"barcode"`
	Category    string `json:"category"`
	SubCategory string `json:"subCategory"`
	Brand       string `json:"brand"`
	Supplier    string `json:"supplier"`
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Barcode     string `json:"barcode"`
	Category    string `json:"category"`
	SubCategory string `json:"subCategory"`
	Brand       string `json:"brand"`
	Supplier    string `json:"supplier"`
}

// ProductFromCreate validates a create request; a fresh identifier is assigned.
func ProductFromCreate(req ProductRequest) domain.Result[domain.Product] {
	return productFrom(req, nil)
}

// ProductFromUpsert validates an upsert request for the given identifier.
func ProductFromUpsert(id uuid.UUID, req ProductRequest) domain.Result[domain.Product] {
	return productFrom(req, &id)
}

func productFrom(req ProductRequest, id *uuid.UUID) domain.Result[domain.Product] {
	return domain.NewProduct(req.Name, req.Description, req.Barcode, req.Category,
		req.SubCategory, req.Brand, req.Supplier, id)
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Barcode:     p.Barcode,
		Category:    p.Category,
		SubCategory: p.SubCategory,
		Brand:       p.Brand,
		Supplier:    p.Supplier,
	}
}
