package models

// Category is the fixed product taxonomy of the catalog
type Category string

const (
	CategoryCleanser    Category = "Cleanser"
	CategoryMoisturizer Category = "Moisturizer"
	CategorySerum       Category = "Serum"
	CategorySunscreen   Category = "Sunscreen"
	CategoryToner       Category = "Toner"
	CategoryMask        Category = "Mask"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryCleanser,
	CategoryMoisturizer,
	CategorySerum,
	CategorySunscreen,
	CategoryToner,
	CategoryMask,
}

// Valid reports whether c is part of the taxonomy
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
