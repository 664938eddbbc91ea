package dto

import (
	"github.com/google/uuid"
	"github.com/mrops-br/stock-manager-api/internal/domain"
	"github.com/shopspring/decimal"
)

type PurchaseRequest struct {
	BranchID  string          `json:"branchId"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type PurchaseResponse struct {
	ID        string          `json:"id"`
	BranchID  string          `json:"branchId"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func PurchaseFromCreate(req PurchaseRequest) domain.Result[domain.Purchase] {
	return domain.NewPurchase(parseRef(req.BranchID), parseRef(req.ProductID), req.Quantity, req.Price, nil)
}

func PurchaseFromUpsert(id uuid.UUID, req PurchaseRequest) domain.Result[domain.Purchase] {
	return domain.NewPurchase(parseRef(req.BranchID), parseRef(req.ProductID), req.Quantity, req.Price, &id)
}

func ToPurchaseResponse(p domain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:        p.ID.String(),
		BranchID:  p.BranchID.String(),
		ProductID: p.ProductID.String(),
		Quantity:  p.Quantity,
		Price:     p.Price,
	}
}
