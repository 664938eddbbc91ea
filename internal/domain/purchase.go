package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrPurchaseInvalidBranch   = ValidationError("Purchase.InvalidBranch", "Purchase branch reference must be set.")
	ErrPurchaseInvalidProduct  = ValidationError("Purchase.InvalidProduct", "Purchase product reference must be set.")
	ErrPurchaseInvalidQuantity = ValidationError("Purchase.InvalidQuantity", "Purchase quantity must be greater than zero.")
	ErrPurchaseInvalidPrice    = ValidationError("Purchase.InvalidPrice", "Purchase price must not be negative.")

	ErrPurchaseNotFound = NotFoundError("Purchase.NotFound", "Purchase not found")
)

// Purchase is a sale of a product at a branch.
type Purchase struct {
	ID        uuid.UUID       `json:"id"`
	BranchID  uuid.UUID       `json:"branchId"`
	ProductID uuid.UUID       `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func (p Purchase) EntityID() uuid.UUID { return p.ID }

func NewPurchase(branchID, productID uuid.UUID, quantity int, price decimal.Decimal, id *uuid.UUID) Result[Purchase] {
	var errs []Error

	if branchID == uuid.Nil {
		errs = append(errs, ErrPurchaseInvalidBranch)
	}
	if productID == uuid.Nil {
		errs = append(errs, ErrPurchaseInvalidProduct)
	}
	if quantity <= 0 {
		errs = append(errs, ErrPurchaseInvalidQuantity)
	}
	if price.IsNegative() {
		errs = append(errs, ErrPurchaseInvalidPrice)
	}
	if len(errs) > 0 {
		return Fail[Purchase](errs...)
	}

	return Ok(Purchase{
		ID:        idOrNew(id),
		BranchID:  branchID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     price,
	})
}
