package models

import "strings"

type Category string

const (
	CategoryMattress Category = "Mattress"
	CategoryBolster  Category = "Bolster"
	CategoryCushion  Category = "Cushion"
	CategoryPillow   Category = "Pillow"
	CategoryQuilts   Category = "Quilts"
	CategorySheet    Category = "Sheet"
)

var Categories = []Category{
	CategoryMattress,
	CategoryBolster,
	CategoryCushion,
	CategoryPillow,
	CategoryQuilts,
	CategorySheet,
}

// predefinedSizes are the labels offered by the admin panel per category.
// Products may still carry free-form custom sizes.
var predefinedSizes = map[Category][]string{
	CategoryMattress: {"Single", "Double", "Queen", "King"},
	CategoryBolster:  {"Small", "Medium", "Large"},
	CategoryCushion:  {"16x16", "18x18", "20x20", "24x24"},
	CategoryPillow:   {"Standard", "Queen", "King"},
	CategoryQuilts:   {"Single", "Double", "Queen", "King"},
	CategorySheet:    {"Single", "Double", "Queen", "King"},
}

// ParseCategory matches s against the enumeration, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

func (c Category) PredefinedSizes() []string {
	sizes := predefinedSizes[c]
	out := make([]string, len(sizes))
	copy(out, sizes)
	return out
}
