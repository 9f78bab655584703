package pricing

import (
	"github.com/shopspring/decimal"
)

// Karat represents a gold purity grade
type Karat string

const (
	Karat24 Karat = "24K"
	Karat22 Karat = "22K"
	Karat21 Karat = "21K"
	Karat18 Karat = "18K"
	Karat14 Karat = "14K"
	Karat10 Karat = "10K"
	Karat9  Karat = "9K"
)

// karatPurity maps each karat grade to its gold purity percentage.
// 22K = 91.6% is the hallmark standard for Indian jewellery.
var karatPurity = map[Karat]decimal.Decimal{
	Karat24: decimal.NewFromFloat(99.9),
	Karat22: decimal.NewFromFloat(91.6),
	Karat21: decimal.NewFromFloat(87.5),
	Karat18: decimal.NewFromFloat(75.0),
	Karat14: decimal.NewFromFloat(58.5),
	Karat10: decimal.NewFromFloat(41.7),
	Karat9:  decimal.NewFromFloat(37.5),
}

// IsValid checks if the karat is a recognized grade
func (k Karat) IsValid() bool {
	_, ok := karatPurity[k]
	return ok
}

// String returns the string representation of the karat
func (k Karat) String() string {
	return string(k)
}

// Purity returns the gold purity percentage for the karat grade
func (k Karat) Purity() decimal.Decimal {
	return karatPurity[k]
}

// AllKarats returns the supported karat grades in descending purity order
func AllKarats() []Karat {
	return []Karat{Karat24, Karat22, Karat21, Karat18, Karat14, Karat10, Karat9}
}
