package repository_test

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	testTime  = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	testPrice = decimal.RequireFromString("19.99")
)
