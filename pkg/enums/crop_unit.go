package enums

import "fmt"

// CropUnit is the unit of measure a crop is sold in.
type CropUnit string

const (
	CropUnitKilogram CropUnit = "kg"
	CropUnitBag      CropUnit = "bag"
	CropUnitCrate    CropUnit = "crate"
	CropUnitBunch    CropUnit = "bunch"
	CropUnitLitre    CropUnit = "litre"
	CropUnitPiece    CropUnit = "piece"
)

var validCropUnits = []CropUnit{
	CropUnitKilogram,
	CropUnitBag,
	CropUnitCrate,
	CropUnitBunch,
	CropUnitLitre,
	CropUnitPiece,
}

// String implements fmt.Stringer.
func (u CropUnit) String() string {
	return string(u)
}

// IsValid reports whether the value is a known CropUnit.
func (u CropUnit) IsValid() bool {
	for _, candidate := range validCropUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseCropUnit converts raw input into a CropUnit.
func ParseCropUnit(value string) (CropUnit, error) {
	for _, candidate := range validCropUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid crop unit %q", value)
}
