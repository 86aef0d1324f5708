package provider_test

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"strings"
	"testing"
	"time"

	"metalprice-service/internal/domain"
	"metalprice-service/internal/infrastructure/provider"

	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func httpClient(resBody string, code int, seen *[]string) *http.Client {
	return &http.Client{
		Timeout: 2 * time.Second,
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if seen != nil {
				*seen = append(*seen, r.URL.String())
			}
			return &http.Response{
				StatusCode: code,
				Body:       io.NopCloser(strings.NewReader(resBody)),
				Header:     make(http.Header),
				Request:    r,
			}, nil
		}),
	}
}

const sampleOK = `{
  "success": true,
  "base": "USD",
  "timestamp": 1731240000,
  "rates": { "EUR": 0.92, "XAU": 0.00059, "XAG": 0.047, "INR": 83.2 }
}`

func TestBuildURL(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		base string
		key  string
		want string
	}{
		{"no key", "https://api.metalpriceapi.com/v1/latest", "",
			"https://api.metalpriceapi.com/v1/latest?base=USD&currencies=EUR,XAU,XAG,INR"},
		{"key appended with ?", "https://api.metalpriceapi.com/v1/latest", "k1",
			"https://api.metalpriceapi.com/v1/latest?api_key=k1&base=USD&currencies=EUR,XAU,XAG,INR"},
		{"key appended with &", "https://x.test/v1/latest?foo=bar", "k1",
			"https://x.test/v1/latest?foo=bar&api_key=k1&base=USD&currencies=EUR,XAU,XAG,INR"},
		{"key already declared", "https://x.test/v1/latest?api_key=preset", "k1",
			"https://x.test/v1/latest?api_key=preset&base=USD&currencies=EUR,XAU,XAG,INR"},
		{"key not escaped", "https://x.test/v1/latest", "a+b/c=",
			"https://x.test/v1/latest?api_key=a+b/c=&base=USD&currencies=EUR,XAU,XAG,INR"},
	}
	for _, c := range cases {
		got := provider.BuildURL(c.base, c.key)
		require.Equal(t, c.want, got, c.name)
		require.LessOrEqual(t, strings.Count(got, "api_key="), 1, c.name)
	}
}

func TestLatest_HappyPath(t *testing.T) {
	t.Parallel()
	var seen []string
	p := &provider.MetalPriceAPIProvider{
		BaseURL: "https://api.metalpriceapi.com/v1/latest",
		APIKey:  "test",
		Client:  httpClient(sampleOK, 200, &seen),
	}
	r, err := p.Latest(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.UpstreamRates{XAU: 0.00059, XAG: 0.047, INR: 83.2, EUR: 0.92}, r)
	require.Len(t, seen, 1)
	require.Contains(t, seen[0], "api_key=test")
}

func TestLatest_Unsuccessful(t *testing.T) {
	t.Parallel()
	body := `{"success": false, "error": {"statusCode": 101, "message": "Invalid API key"}}`
	p := &provider.MetalPriceAPIProvider{
		BaseURL: "https://api.metalpriceapi.com/v1/latest",
		Client:  httpClient(body, 401, nil),
	}
	_, err := p.Latest(context.Background())
	var rej *domain.UpstreamRejectedError
	require.ErrorAs(t, err, &rej)
	require.JSONEq(t, body, string(rej.Payload))
}

func TestLatest_MissingRates(t *testing.T) {
	t.Parallel()
	for _, body := range []string{`{"success": true}`, `{"success": true, "rates": null}`, `{"success": 1, "rates": 0}`, `{"rates": {"XAU": 1}}`} {
		p := &provider.MetalPriceAPIProvider{BaseURL: "http://x.test", Client: httpClient(body, 200, nil)}
		_, err := p.Latest(context.Background())
		var rej *domain.UpstreamRejectedError
		require.ErrorAs(t, err, &rej, body)
	}
}

func TestLatest_MissingRateFieldIsNotRejection(t *testing.T) {
	t.Parallel()
	p := &provider.MetalPriceAPIProvider{
		BaseURL: "http://x.test",
		Client:  httpClient(`{"success": true, "rates": {"XAG": 0.047, "INR": 83.2}}`, 200, nil),
	}
	r, err := p.Latest(context.Background())
	require.NoError(t, err)
	require.True(t, math.IsNaN(r.XAU))
	_, err = domain.ComputePriceDetails(r)
	require.ErrorIs(t, err, domain.ErrInvalidRates)
}

func TestLatest_NotJSON(t *testing.T) {
	t.Parallel()
	for _, body := range []string{"<html>bad gateway</html>", "{x", "", "[]"} {
		p := &provider.MetalPriceAPIProvider{BaseURL: "http://x.test", Client: httpClient(body, 502, nil)}
		_, err := p.Latest(context.Background())
		require.Error(t, err, body)
		var rej *domain.UpstreamRejectedError
		require.False(t, errors.As(err, &rej), body)
	}
}

func TestLatest_TransportErrorNoRetry(t *testing.T) {
	t.Parallel()
	calls := 0
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return nil, errors.New("connection reset")
	})}
	p := &provider.MetalPriceAPIProvider{BaseURL: "http://x.test", Client: client}
	_, err := p.Latest(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "metalpriceapi: do request")
	require.Equal(t, 1, calls)
}

func TestLatest_MissingBaseURL(t *testing.T) {
	t.Parallel()
	_, err := (&provider.MetalPriceAPIProvider{}).Latest(context.Background())
	require.Error(t, err)
}

func TestFake(t *testing.T) {
	t.Parallel()
	r, err := provider.NewFake(provider.DefaultFakeRates).Latest(context.Background())
	require.NoError(t, err)
	_, err = domain.ComputePriceDetails(r)
	require.NoError(t, err)
}
