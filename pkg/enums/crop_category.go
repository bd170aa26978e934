package enums

import "fmt"

// CropCategory groups crops for catalog filtering.
type CropCategory string

const (
	CropCategoryCereals     CropCategory = "cereals"
	CropCategoryLegumes     CropCategory = "legumes"
	CropCategoryVegetables  CropCategory = "vegetables"
	CropCategoryFruits      CropCategory = "fruits"
	CropCategoryRootsTubers CropCategory = "roots_tubers"
	CropCategorySpices      CropCategory = "spices"
)

var validCropCategories = []CropCategory{
	CropCategoryCereals,
	CropCategoryLegumes,
	CropCategoryVegetables,
	CropCategoryFruits,
	CropCategoryRootsTubers,
	CropCategorySpices,
}

// String implements fmt.Stringer.
func (c CropCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CropCategory.
func (c CropCategory) IsValid() bool {
	for _, candidate := range validCropCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCropCategory converts raw input into a CropCategory.
func ParseCropCategory(value string) (CropCategory, error) {
	for _, candidate := range validCropCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid crop category %q", value)
}
