package provider

import (
	"context"

	"metalprice-service/internal/application"
	"metalprice-service/internal/domain"
)

// Ensure Fake implements application.RateProvider.
var _ application.RateProvider = (*Fake)(nil)

type Fake struct {
	rates domain.UpstreamRates
}

func NewFake(rates domain.UpstreamRates) *Fake { return &Fake{rates: rates} }

// DefaultFakeRates are plausible spot rates for local runs without an API key.
var DefaultFakeRates = domain.UpstreamRates{XAU: 0.00059, XAG: 0.047, INR: 83.2, EUR: 0.92}

func (f *Fake) Latest(context.Context) (domain.UpstreamRates, error) {
	return f.rates, nil
}
