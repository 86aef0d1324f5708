package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"metalprice-service/internal/application"
	"metalprice-service/internal/domain"
)

const (
	apiKeyParam = "api_key="
	// EUR is not used by the computation but stays in the request for upstream compatibility.
	latestQuery  = "base=USD&currencies=EUR,XAU,XAG,INR"
	maxBodyBytes = 1 << 20
)

type MetalPriceAPIProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

var _ application.RateProvider = (*MetalPriceAPIProvider)(nil)

type latestResp struct {
	Success json.RawMessage `json:"success"`
	Rates   json.RawMessage `json:"rates"`
}

func appendQuery(u, kv string) string {
	if strings.Contains(u, "?") {
		return u + "&" + kv
	}
	return u + "?" + kv
}

// BuildURL adds the API key (unless the base already declares one) and the
// fixed currency selection to base. The key is appended verbatim.
func BuildURL(base, apiKey string) string {
	u := base
	if apiKey != "" && !strings.Contains(u, apiKeyParam) {
		u = appendQuery(u, apiKeyParam+apiKey)
	}
	return appendQuery(u, latestQuery)
}

// Latest performs a single GET against the upstream. The body is inspected
// regardless of HTTP status since the upstream reports failures in JSON.
func (p *MetalPriceAPIProvider) Latest(ctx context.Context) (domain.UpstreamRates, error) {
	if p.BaseURL == "" {
		return domain.UpstreamRates{}, fmt.Errorf("metalpriceapi: missing base url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, BuildURL(p.BaseURL, p.APIKey), nil)
	if err != nil {
		return domain.UpstreamRates{}, fmt.Errorf("metalpriceapi: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return domain.UpstreamRates{}, fmt.Errorf("metalpriceapi: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.UpstreamRates{}, fmt.Errorf("metalpriceapi: read body: %w", err)
	}
	return parseLatest(raw, resp.StatusCode)
}

func parseLatest(raw []byte, status int) (domain.UpstreamRates, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.UpstreamRates{}, fmt.Errorf("metalpriceapi: decode response (status %d): not a JSON object", status)
	}
	var body latestResp
	if err := json.Unmarshal(trimmed, &body); err != nil {
		return domain.UpstreamRates{}, fmt.Errorf("metalpriceapi: decode response (status %d): %w", status, err)
	}
	if !truthy(body.Success) || !truthy(body.Rates) {
		return domain.UpstreamRates{}, &domain.UpstreamRejectedError{Payload: json.RawMessage(trimmed)}
	}

	// A rates value that is not an object leaves the map empty; the missing
	// fields are then rejected by domain validation.
	var rates map[string]any
	_ = json.Unmarshal(body.Rates, &rates)
	return domain.UpstreamRates{
		XAU: rateOf(rates, "XAU"),
		XAG: rateOf(rates, "XAG"),
		INR: rateOf(rates, "INR"),
		EUR: rateOf(rates, "EUR"),
	}, nil
}

func rateOf(rates map[string]any, code string) float64 {
	if v, ok := rates[code].(float64); ok {
		return v
	}
	return math.NaN()
}

// truthy mirrors JSON truthiness: absent, null, false, 0 and "" are false.
func truthy(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	switch s {
	case "", "null", "false", `""`:
		return false
	case "true":
		return true
	}
	switch s[0] {
	case '{', '[', '"':
		return true
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && f != 0
}
