// Package query translates raw search parameters into store filters.
package query

import (
	"github.com/google/uuid"
	"github.com/mrops-br/stock-manager-api/internal/domain"
)

// Field describes the document field a search option filters on.
type Field struct {
	Path string
	// Identifier fields parse the raw value as a UUID.
	Identifier bool
	// Normalize maps the raw value onto the stored form of the field.
	Normalize func(string) string
}

// Schema wires the search options that are meaningful for one entity kind.
// Options absent from the schema are ignored for that kind.
type Schema struct {
	Entity string
	Fields map[domain.SearchOption]Field
}

var (
	ProductSchema = Schema{
		Entity: "product",
		Fields: map[domain.SearchOption]Field{
			domain.SearchID:       {Path: "id", Identifier: true},
			domain.SearchName:     {Path: "name"},
			domain.SearchBrand:    {Path: "brand"},
			domain.SearchCategory: {Path: "category"},
		},
	}

	BranchSchema = Schema{
		Entity: "branch",
		Fields: map[domain.SearchOption]Field{
			domain.SearchID:   {Path: "id", Identifier: true},
			domain.SearchName: {Path: "name"},
		},
	}

	InventorySchema = Schema{
		Entity: "inventory",
		Fields: map[domain.SearchOption]Field{
			domain.SearchID:        {Path: "id", Identifier: true},
			domain.SearchBranchID:  {Path: "branchId", Identifier: true},
			domain.SearchProductID: {Path: "productId", Identifier: true},
		},
	}

	PurchaseSchema = Schema{
		Entity: "purchase",
		Fields: map[domain.SearchOption]Field{
			domain.SearchID:        {Path: "id", Identifier: true},
			domain.SearchBranchID:  {Path: "branchId", Identifier: true},
			domain.SearchProductID: {Path: "productId", Identifier: true},
		},
	}

	UserSchema = Schema{
		Entity: "user",
		Fields: map[domain.SearchOption]Field{
			domain.SearchID:    {Path: "id", Identifier: true},
			domain.SearchName:  {Path: "profile.firstName"},
			domain.SearchEmail: {Path: "email", Normalize: domain.NormalizeEmail},
		},
	}
)

// Translate builds a conjunctive, soft-delete aware filter from params.
//
// Parameters with an empty name or value and names outside the search
// vocabulary are skipped. A translation that adds no clause beyond the
// soft-delete base fails with Search.InvalidParameters instead of matching
// every document.
func Translate(schema Schema, params []domain.SearchParameter) domain.Result[domain.Filter] {
	filter := domain.NotDeleted()
	added := 0

	for _, p := range params {
		if p.Name == "" || p.Value == "" {
			continue
		}
		option, ok := domain.ParseSearchOption(p.Name)
		if !ok {
			continue
		}
		field, ok := schema.Fields[option]
		if !ok {
			continue
		}

		value := p.Value
		if field.Identifier {
			id, err := uuid.Parse(p.Value)
			if err != nil {
				return domain.Fail[domain.Filter](domain.InvalidIdentifierError(option.String(), p.Value))
			}
			value = id.String()
		}
		if field.Normalize != nil {
			value = field.Normalize(value)
		}

		filter = filter.And(field.Path, value)
		added++
	}

	if added == 0 {
		return domain.Fail[domain.Filter](domain.ErrInvalidSearchParameters)
	}
	return domain.Ok(filter)
}
