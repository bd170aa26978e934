package catalog

import (
	"context"
	"time"

	"github.com/agroconnect-tz/agroconnect-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type seedSeller struct {
	id   uuid.UUID
	name string
}

// Seed loads the development crop listings into the repository. Prices are
// per unit in TZS.
func Seed(ctx context.Context, repo Repository, now time.Time) error {
	mbeya := seedSeller{id: uuid.New(), name: "Mbeya Highlands Farm"}
	kilombero := seedSeller{id: uuid.New(), name: "Kilombero Valley Growers"}
	arusha := seedSeller{id: uuid.New(), name: "Arusha Green Cooperative"}
	pemba := seedSeller{id: uuid.New(), name: "Pemba Spice Collective"}

	entries := []struct {
		name     string
		category enums.CropCategory
		unit     enums.CropUnit
		price    string
		qty      int
		seller   seedSeller
		region   string
		organic  bool
	}{
		{"Maize (Mahindi)", enums.CropCategoryCereals, enums.CropUnitBag, "85000", 120, mbeya, "Mbeya", false},
		{"Rice (Mchele)", enums.CropCategoryCereals, enums.CropUnitBag, "160000", 80, kilombero, "Morogoro", false},
		{"Cassava (Muhogo)", enums.CropCategoryRootsTubers, enums.CropUnitKilogram, "1200", 500, kilombero, "Morogoro", false},
		{"Sweet Potatoes (Viazi Vitamu)", enums.CropCategoryRootsTubers, enums.CropUnitKilogram, "1500", 300, mbeya, "Mbeya", false},
		{"Beans (Maharage)", enums.CropCategoryLegumes, enums.CropUnitKilogram, "3200", 250, arusha, "Arusha", true},
		{"Tomatoes (Nyanya)", enums.CropCategoryVegetables, enums.CropUnitCrate, "28000", 60, arusha, "Arusha", false},
		{"Onions (Vitunguu)", enums.CropCategoryVegetables, enums.CropUnitKilogram, "2500", 400, arusha, "Arusha", false},
		{"Spinach (Mchicha)", enums.CropCategoryVegetables, enums.CropUnitBunch, "800", 150, arusha, "Arusha", true},
		{"Bananas (Ndizi)", enums.CropCategoryFruits, enums.CropUnitBunch, "9000", 90, kilombero, "Mbeya", false},
		{"Mangoes (Embe)", enums.CropCategoryFruits, enums.CropUnitCrate, "32000", 45, kilombero, "Morogoro", false},
		{"Avocados (Parachichi)", enums.CropCategoryFruits, enums.CropUnitKilogram, "4500", 200, mbeya, "Njombe", true},
		{"Cloves (Karafuu)", enums.CropCategorySpices, enums.CropUnitKilogram, "24000", 70, pemba, "Pemba", true},
	}

	for i, entry := range entries {
		price, err := decimal.NewFromString(entry.price)
		if err != nil {
			return err
		}
		crop := Crop{
			ID:                uuid.New(),
			Name:              entry.name,
			Category:          entry.category,
			Unit:              entry.unit,
			PricePerUnit:      price,
			QuantityAvailable: entry.qty,
			SellerID:          entry.seller.id,
			SellerName:        entry.seller.name,
			Region:            entry.region,
			IsOrganic:         entry.organic,
			CreatedAt:         now.Add(-time.Duration(i) * time.Minute),
		}
		if err := repo.Insert(ctx, crop); err != nil {
			return err
		}
	}
	return nil
}
