package i18n

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Prices keep Latin digits and English grouping in both languages.
var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders a whole-dinar amount, e.g. "KWD 450,000". Rent prices
// get the localized monthly suffix.
func FormatPrice(price float64, rent bool, lang Language) string {
	s := pricePrinter.Sprintf("KWD %d", int64(math.Round(price)))
	if rent {
		s += " " + T("month", lang)
	}
	return s
}

// FormatNumber groups thousands, e.g. 12500 -> "12,500".
func FormatNumber(n float64) string {
	return pricePrinter.Sprintf("%d", int64(math.Round(n)))
}
