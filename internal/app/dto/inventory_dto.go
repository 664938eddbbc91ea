package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/stock-manager-api/internal/domain"
	"github.com/shopspring/decimal"
)

// InventoryRequest carries references as strings so that a malformed
// identifier is reported by the validator together with other violations.
type InventoryRequest struct {
	BranchID   string          `json:"branchId"`
	ProductID  string          `json:"productId"`
	OrderDate  time.Time       `json:"orderDate"`
	OrderPrice decimal.Decimal `json:"orderPrice"`
	Quantity   int             `json:"quantity"`
}

type InventoryResponse struct {
	ID         string          `json:"id"`
	BranchID   string          `json:"branchId"`
	ProductID  string          `json:"productId"`
	OrderDate  time.Time       `json:"orderDate"`
	OrderPrice decimal.Decimal `json:"orderPrice"`
	Quantity   int             `json:"quantity"`
}

func InventoryFromCreate(req InventoryRequest) domain.Result[domain.Inventory] {
	return inventoryFrom(req, nil)
}

func InventoryFromUpsert(id uuid.UUID, req InventoryRequest) domain.Result[domain.Inventory] {
	return inventoryFrom(req, &id)
}

func inventoryFrom(req InventoryRequest, id *uuid.UUID) domain.Result[domain.Inventory] {
	orderDate := req.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}
	return domain.NewInventory(parseRef(req.BranchID), parseRef(req.ProductID),
		orderDate, req.OrderPrice, req.Quantity, id)
}

func ToInventoryResponse(i domain.Inventory) InventoryResponse {
	return InventoryResponse{
		ID:         i.ID.String(),
		BranchID:   i.BranchID.String(),
		ProductID:  i.ProductID.String(),
		OrderDate:  i.OrderDate,
		OrderPrice: i.OrderPrice,
		Quantity:   i.Quantity,
	}
}

// parseRef returns uuid.Nil for empty or malformed references.
func parseRef(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
