package schema

import (
	"context"
	"log"
)

const (
	hourlyRate  = 75.0 // EUR/hour, blended rate
	avgTeamSize = 2.5
)

// staticInfraCost is the fallback monthly infrastructure cost per
// complexity bucket, used when no live cloud price is available.
var staticInfraCost = map[Complexity]float64{
	ComplexitySimple:     50,
	ComplexityModerate:   150,
	ComplexityComplex:    300,
	ComplexityEnterprise: 600,
}

// referenceInstance maps complexity to the compute class priced against the
// cloud pricing store.
var referenceInstance = map[Complexity]struct {
	VCPU     int
	MemoryGB float64
	Count    int
}{
	ComplexitySimple:     {VCPU: 2, MemoryGB: 4, Count: 1},
	ComplexityModerate:   {VCPU: 2, MemoryGB: 8, Count: 2},
	ComplexityComplex:    {VCPU: 4, MemoryGB: 16, Count: 3},
	ComplexityEnterprise: {VCPU: 8, MemoryGB: 32, Count: 4},
}

// EstimateCosts builds the full cost picture. Live cloud prices are
// preferred for the infrastructure line when the pricing store has fresh
// data; everything else comes from the static model.
func (g *Generator) EstimateCosts(ctx context.Context, projectType string, complexity Complexity, totalWeeks int) CostEstimation {
	developmentHours := float64(totalWeeks) * hoursPerWeek * avgTeamSize
	developmentCost := developmentHours * hourlyRate

	infraMonthly := staticInfraCost[complexity]
	pricingSource := "static"
	if g != nil && g.prices != nil {
		ref := referenceInstance[complexity]
		if monthly, err := g.prices.MonthlyComputeCost(ctx, ref.VCPU, ref.MemoryGB); err == nil && monthly > 0 {
			infraMonthly = monthly * float64(ref.Count)
			pricingSource = "live"
		} else if err != nil {
			log.Printf("[warn] operation=estimate_costs message=live pricing unavailable: %v", err)
		}
	}

	thirdParty := map[string]float64{}
	switch projectType {
	case "ecommerce":
		thirdParty["Payment Processing"] = 29
		thirdParty["Email Service"] = 15
		thirdParty["CDN"] = 20
	case "saas":
		thirdParty["Auth Service"] = 25
		thirdParty["Analytics"] = 35
		thirdParty["Monitoring"] = 25
	}

	thirdPartyMonthly := 0.0
	for _, v := range thirdParty {
		thirdPartyMonthly += v
	}

	// Maintenance runs at 20% of the development cost per year.
	maintenanceMonthly := developmentCost * 0.2 / 12

	totalMonthly := infraMonthly + thirdPartyMonthly + maintenanceMonthly

	return CostEstimation{
		DevelopmentCost:           developmentCost,
		InfrastructureCostMonthly: infraMonthly,
		MaintenanceCostMonthly:    maintenanceMonthly,
		ThirdPartyServices:        thirdParty,
		TotalFirstYear:            developmentCost + totalMonthly*12,
		OngoingYearly:             totalMonthly * 12,
		PricingSource:             pricingSource,
	}
}
