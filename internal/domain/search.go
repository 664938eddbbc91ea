package domain

import "strings"

// SearchOption is the closed vocabulary of search parameter names accepted by
// every search endpoint. Adding or removing members changes the wire contract.
type SearchOption int

const (
	SearchID SearchOption = iota
	SearchName
	SearchBranchID
	SearchProductID
	SearchOrderID
	SearchEmail
	SearchBrand
	SearchCategory
)

var searchOptionNames = [...]string{
	SearchID:        "ID",
	SearchName:      "NAME",
	SearchBranchID:  "BRANCHID",
	SearchProductID: "PRODUCTID",
	SearchOrderID:   "ORDERID",
	SearchEmail:     "EMAIL",
	SearchBrand:     "BRAND",
	SearchCategory:  "CATEGORY",
}

func (o SearchOption) String() string {
	if int(o) < 0 || int(o) >= len(searchOptionNames) {
		return "UNKNOWN"
	}
	return searchOptionNames[o]
}

// ParseSearchOption matches name case-insensitively against the vocabulary.
func ParseSearchOption(name string) (SearchOption, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range searchOptionNames {
		if n == upper {
			return SearchOption(i), true
		}
	}
	return 0, false
}

// SearchOptions lists the vocabulary in declaration order.
func SearchOptions() []SearchOption {
	out := make([]SearchOption, len(searchOptionNames))
	for i := range searchOptionNames {
		out[i] = SearchOption(i)
	}
	return out
}

// SearchParameter is a single raw filter clause before translation.
type SearchParameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
