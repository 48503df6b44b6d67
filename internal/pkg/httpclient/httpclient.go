package httpclient

import (
	circuit "github.com/rubyist/circuitbreaker"

	"github.com/ChickenSoup269/Zero-Movie-sub001/config"
)

func InitCircuitBreaker(cfg *config.HttpClientConfig, breakerType string) *circuit.Breaker {
	switch breakerType {
	case "rate":
		return circuit.NewRateBreaker(cfg.ErrorRate, cfg.MinSamples)
	case "threshold":
		return circuit.NewThresholdBreaker(cfg.ConsecutiveFailures)
	default:
		return circuit.NewConsecutiveBreaker(cfg.ConsecutiveFailures)
	}
}

// InitHttpClient wraps outbound calls to the catalog, identity and payment
// provider endpoints in a single shared breaker.
func InitHttpClient(cfg *config.HttpClientConfig, cb *circuit.Breaker) *circuit.HTTPClient {
	client := circuit.NewHTTPClient(cfg.Timeout, cfg.ConsecutiveFailures, nil)
	client.BreakerLookup = func(c *circuit.HTTPClient, _ interface{}) *circuit.Breaker {
		return cb
	}
	return client
}
