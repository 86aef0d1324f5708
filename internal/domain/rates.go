package domain

// UpstreamRates holds units of each currency per 1 USD as reported upstream.
type UpstreamRates struct {
	XAU float64
	XAG float64
	INR float64
	// EUR is requested upstream but not used in any computation.
	EUR float64
}
