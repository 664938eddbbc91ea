package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInventoryInvalidBranch   = ValidationError("Inventory.InvalidBranch", "Inventory branch reference must be set.")
	ErrInventoryInvalidProduct  = ValidationError("Inventory.InvalidProduct", "Inventory product reference must be set.")
	ErrInventoryInvalidQuantity = ValidationError("Inventory.InvalidQuantity", "Inventory quantity must be greater than zero.")
	ErrInventoryInvalidPrice    = ValidationError("Inventory.InvalidPrice", "Inventory order price must not be negative.")

	ErrInventoryNotFound = NotFoundError("Inventory.NotFound", "Inventory not found")
)

// Inventory is a single stock order line: one product delivered to one branch.
type Inventory struct {
	ID         uuid.UUID       `json:"id"`
	BranchID   uuid.UUID       `json:"branchId"`
	ProductID  uuid.UUID       `json:"productId"`
	OrderDate  time.Time       `json:"orderDate"`
	OrderPrice decimal.Decimal `json:"orderPrice"`
	Quantity   int             `json:"quantity"`
}

func (i Inventory) EntityID() uuid.UUID { return i.ID }

func NewInventory(branchID, productID uuid.UUID, orderDate time.Time, orderPrice decimal.Decimal, quantity int, id *uuid.UUID) Result[Inventory] {
	var errs []Error

	if branchID == uuid.Nil {
		errs = append(errs, ErrInventoryInvalidBranch)
	}
	if productID == uuid.Nil {
		errs = append(errs, ErrInventoryInvalidProduct)
	}
	if quantity <= 0 {
		errs = append(errs, ErrInventoryInvalidQuantity)
	}
	if orderPrice.IsNegative() {
		errs = append(errs, ErrInventoryInvalidPrice)
	}
	if len(errs) > 0 {
		return Fail[Inventory](errs...)
	}

	return Ok(Inventory{
		ID:         idOrNew(id),
		BranchID:   branchID,
		ProductID:  productID,
		OrderDate:  orderDate.UTC(),
		OrderPrice: orderPrice,
		Quantity:   quantity,
	})
}
