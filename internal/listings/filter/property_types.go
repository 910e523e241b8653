package filter

import (
	"strings"

	"aqarna-listings/internal/catalog"
)

const AnyPropertyType = "any"

var (
	BuyPropertyTypes  = []string{"villa", "apartment", "land", "tower"}
	RentPropertyTypes = []string{"villa", "apartment", "villa_floor"}
)

// PropertyTypes lists the types offered for a transaction type.
func PropertyTypes(t catalog.TransactionType) []string {
	if t == catalog.Rent {
		return RentPropertyTypes
	}
	return BuyPropertyTypes
}

// IsValidPropertyType matches case-insensitively against PropertyTypes(t).
func IsValidPropertyType(propertyType string, t catalog.TransactionType) bool {
	lower := strings.ToLower(propertyType)
	for _, v := range PropertyTypes(t) {
		if v == lower {
			return true
		}
	}
	return false
}

// BedBathOptions are the minimums offered by the beds and baths pickers.
var BedBathOptions = []int{1, 2, 3, 4, 5}
