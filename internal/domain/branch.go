package domain

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	BranchMinNameLength  = 3
	BranchMaxNameLength  = 50
	BranchMinPhoneLength = 10
	BranchMaxPhoneLength = 10
)

var (
	ErrBranchInvalidName = ValidationError(
		"Branch.InvalidName",
		fmt.Sprintf("Branch name must be at least %d characters long and at most %d characters long.",
			BranchMinNameLength, BranchMaxNameLength))

	ErrBranchInvalidPhone = ValidationError(
		"Branch.InvalidPhone",
		fmt.Sprintf("Phone number must be at least %d characters long and at most %d characters long.",
			BranchMinPhoneLength, BranchMaxPhoneLength))

	ErrBranchNotFound = NotFoundError("Branch.NotFound", "Branch not found")
)

// Branch is a physical store location.
type Branch struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Town    string    `json:"town"`
	Phone   string    `json:"phone"`
	Address string    `json:"address"`
}

func (b Branch) EntityID() uuid.UUID { return b.ID }

func NewBranch(name, town, phone, address string, id *uuid.UUID) Result[Branch] {
	var errs []Error

	if n := utf8.RuneCountInString(name); n < BranchMinNameLength || n > BranchMaxNameLength {
		errs = append(errs, ErrBranchInvalidName)
	}
	if n := utf8.RuneCountInString(phone); n < BranchMinPhoneLength || n > BranchMaxPhoneLength {
		errs = append(errs, ErrBranchInvalidPhone)
	}
	if len(errs) > 0 {
		return Fail[Branch](errs...)
	}

	return Ok(Branch{
		ID:      idOrNew(id),
		Name:    name,
		Town:    town,
		Phone:   phone,
		Address: address,
	})
}
