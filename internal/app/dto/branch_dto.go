package dto

import (
	"github.com/google/uuid"
	"github.com/mrops-br/stock-manager-api/internal/domain"
)

type BranchRequest struct {
	Name    string `json:"name"`
	Town    string `json:"town"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type BranchResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Town    string `json:"town"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func BranchFromCreate(req BranchRequest) domain.Result[domain.Branch] {
	return domain.NewBranch(req.Name, req.Town, req.Phone, req.Address, nil)
}

func BranchFromUpsert(id uuid.UUID, req BranchRequest) domain.Result[domain.Branch] {
	return domain.NewBranch(req.Name, req.Town, req.Phone, req.Address, &id)
}

func ToBranchResponse(b domain.Branch) BranchResponse {
	return BranchResponse{
		ID:      b.ID.String(),
		Name:    b.Name,
		Town:    b.Town,
		Phone:   b.Phone,
		Address: b.Address,
	}
}
