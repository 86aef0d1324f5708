package domain

import (
	"fmt"
	"math"
	"time"
)

const (
	CustomsMultiplier = 1.06
	GSTMultiplier     = 1.03
	GramsPerTroyOunce = 31.103
)

// PriceDetails is the payload served to clients, including the full
// calculation breakdown for both metals.
type PriceDetails struct {
	GoldPricePerGramInr   float64 `json:"goldPricePerGramInr"`
	SilverPricePerGramInr float64 `json:"silverPricePerGramInr"`
	XauUsd                float64 `json:"xauUsd"`
	XagUsd                float64 `json:"xagUsd"`
	UsdInr                float64 `json:"usdInr"`

	GoldInrPerOunce    float64 `json:"goldInrPerOunce"`
	GoldAfterCustoms   float64 `json:"goldAfterCustoms"`
	GoldAfterGst       float64 `json:"goldAfterGst"`
	SilverInrPerOunce  float64 `json:"silverInrPerOunce"`
	SilverAfterCustoms float64 `json:"silverAfterCustoms"`
	SilverAfterGst     float64 `json:"silverAfterGst"`
}

// CachedQuote is the last successful computation and when it was made.
type CachedQuote struct {
	Details   PriceDetails `json:"details"`
	FetchedAt time.Time    `json:"fetched_at"`
}

type metalBreakdown struct {
	inrPerOunce  float64
	afterCustoms float64
	afterGst     float64
	perGram      float64
}

func breakdown(metalUsd, usdToLocal float64) metalBreakdown {
	var b metalBreakdown
	b.inrPerOunce = metalUsd * usdToLocal
	b.afterCustoms = b.inrPerOunce * CustomsMultiplier
	b.afterGst = b.afterCustoms * GSTMultiplier
	b.perGram = b.afterGst / GramsPerTroyOunce
	return b
}

func validRate(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// ComputePriceDetails converts upstream spot rates into per-gram INR prices.
// The operation order is fixed; results must match float64 evaluation of
// ((1/XAU) * INR * 1.06 * 1.03) / 31.103 exactly.
func ComputePriceDetails(r UpstreamRates) (PriceDetails, error) {
	checks := []struct {
		name string
		v    float64
	}{{"XAU", r.XAU}, {"XAG", r.XAG}, {"INR", r.INR}}
	for _, c := range checks {
		if !validRate(c.v) {
			return PriceDetails{}, fmt.Errorf("%w: %s=%v", ErrInvalidRates, c.name, c.v)
		}
	}

	xauUsd := 1 / r.XAU
	xagUsd := 1 / r.XAG
	usdInr := r.INR

	gold := breakdown(xauUsd, usdInr)
	silver := breakdown(xagUsd, usdInr)

	return PriceDetails{
		GoldPricePerGramInr:   gold.perGram,
		SilverPricePerGramInr: silver.perGram,
		XauUsd:                xauUsd,
		XagUsd:                xagUsd,
		UsdInr:                usdInr,
		GoldInrPerOunce:       gold.inrPerOunce,
		GoldAfterCustoms:      gold.afterCustoms,
		GoldAfterGst:          gold.afterGst,
		SilverInrPerOunce:     silver.inrPerOunce,
		SilverAfterCustoms:    silver.afterCustoms,
		SilverAfterGst:        silver.afterGst,
	}, nil
}
