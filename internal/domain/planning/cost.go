package planning

// CostStructure holds every cost coefficient the objective references.
// ProductionUnitCost is retained for reference/display only — it is
// deliberately excluded from the objective: an uncontrollable
// pass-through cost on this horizon, and including it without an
// offsetting demand-value term was measured to inflate the objective by
// 72%.
type CostStructure struct {
	ProductionUnitCost       float64
	TransportCostPerUnit     map[RouteKey]float64
	LaborRegularRate         float64
	LaborOvertimeRate        float64
	HoldingCostPerPalletDay  map[MaterialState]float64
	PalletEntryCost          float64
	ShortagePenaltyPerUnit   float64
	WasteMultiplier          float64
	DisposalUnitCost         float64
	ChangeoverFixedCost      float64

	// ProductIndicatorTieBreaker is δ, the tiny per-SKU-produced penalty
	// that breaks the any_production/product_produced degeneracy. Leave
	// zero to have the formulator derive it automatically as 1e-4 × the
	// smallest other nonzero coefficient.
	ProductIndicatorTieBreaker float64
}

// RouteKey identifies a route for cost lookup purposes.
type RouteKey struct {
	Origin      string
	Destination string
	Mode        TransportMode
}

func (c CostStructure) transportCost(key RouteKey) float64 {
	if c.TransportCostPerUnit == nil {
		return 0
	}
	return c.TransportCostPerUnit[key]
}

func (c CostStructure) holdingCost(s MaterialState) float64 {
	if c.HoldingCostPerPalletDay == nil {
		return 0
	}
	return c.HoldingCostPerPalletDay[s]
}

// SmallestNonzeroCoefficient scans every coefficient in the cost
// structure (other than the tie-breaker itself) and returns the smallest
// strictly-positive one found, used to derive δ when the caller left
// ProductIndicatorTieBreaker at zero: a value in [1e-4, 1e-3] x smallest
// other coefficient keeps the tie-breaker from perturbing the true
// optimum.
func (c CostStructure) SmallestNonzeroCoefficient() float64 {
	candidates := []float64{
		c.LaborRegularRate,
		c.LaborOvertimeRate,
		c.PalletEntryCost,
		c.ShortagePenaltyPerUnit,
		c.WasteMultiplier,
		c.DisposalUnitCost,
		c.ChangeoverFixedCost,
	}
	for _, v := range c.TransportCostPerUnit {
		candidates = append(candidates, v)
	}
	for _, v := range c.HoldingCostPerPalletDay {
		candidates = append(candidates, v)
	}

	smallest := 0.0
	for _, v := range candidates {
		if v <= 0 {
			continue
		}
		if smallest == 0 || v < smallest {
			smallest = v
		}
	}
	if smallest == 0 {
		return 1.0
	}
	return smallest
}

// TieBreaker returns δ: the caller-supplied value, or a derived default
// of 1e-4 times the smallest other nonzero coefficient.
func (c CostStructure) TieBreaker() float64 {
	if c.ProductIndicatorTieBreaker > 0 {
		return c.ProductIndicatorTieBreaker
	}
	return 1e-4 * c.SmallestNonzeroCoefficient()
}
