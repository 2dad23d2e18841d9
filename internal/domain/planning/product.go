package planning

// Product is a SKU with its shelf lives, production granule, and
// palletization factor.
type Product struct {
	ID                   string
	ShelfLifeAmbientDays int
	ShelfLifeFrozenDays  int
	ShelfLifeThawedDays  int
	UnitsPerMix          int
	UnitsPerPallet       int

	// UnitsPerLaborHour is the production rate the formulator divides by
	// to turn a day's production quantity into labor_hours_used:
	// labor_hours_used[n,t] = Σ_p production[n,p,t] / rate + ....
	// Carrying it on Product (rather than a bare formulator constant)
	// lets different SKUs have different production speeds, which the
	// formulator's per-product loop already expects.
	UnitsPerLaborHour float64
}

// DefaultShelfLives are applied by ingress validation when a Product
// omits shelf-life fields (zero value).
const (
	DefaultShelfLifeAmbientDays = 17
	DefaultShelfLifeFrozenDays  = 120
	DefaultShelfLifeThawedDays  = 14
	DefaultUnitsPerPallet       = 320
	DefaultUnitsPerLaborHour    = 100
)

// ShelfLifeDays returns the window length L_s for state s.
func (p Product) ShelfLifeDays(s MaterialState) int {
	switch s {
	case StateAmbient:
		return p.ShelfLifeAmbientDays
	case StateFrozen:
		return p.ShelfLifeFrozenDays
	case StateThawed:
		return p.ShelfLifeThawedDays
	default:
		return 0
	}
}

// WithProductDefaults fills in any zero-valued shelf-life, pallet, or
// mix field with the package defaults. Exported for use by ingress
// validation when building Products from caller input.
func WithProductDefaults(p Product) Product {
	return p.withDefaults()
}

func (p Product) withDefaults() Product {
	if p.ShelfLifeAmbientDays == 0 {
		p.ShelfLifeAmbientDays = DefaultShelfLifeAmbientDays
	}
	if p.ShelfLifeFrozenDays == 0 {
		p.ShelfLifeFrozenDays = DefaultShelfLifeFrozenDays
	}
	if p.ShelfLifeThawedDays == 0 {
		p.ShelfLifeThawedDays = DefaultShelfLifeThawedDays
	}
	if p.UnitsPerPallet == 0 {
		p.UnitsPerPallet = DefaultUnitsPerPallet
	}
	if p.UnitsPerMix == 0 {
		p.UnitsPerMix = 1
	}
	if p.UnitsPerLaborHour == 0 {
		p.UnitsPerLaborHour = DefaultUnitsPerLaborHour
	}
	return p
}
