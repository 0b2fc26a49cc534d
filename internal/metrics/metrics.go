// Package metrics defines the Prometheus collectors exported by the kotok
// HTTP server.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/az-ai-labs/ko-lang-nlp/token"
)

// Metrics groups the server collectors. A nil *Metrics records nothing.
type Metrics struct {
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	tokens         *prometheus.CounterVec
	unknownTokens  prometheus.Counter
	inputRunes     prometheus.Histogram
}

// MustNew registers the collectors with reg. Collectors that are already
// registered are reused; any other registration error panics.
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kotok",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kotok",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kotok",
			Subsystem: "tokenizer",
			Name:      "tokens_total",
			Help:      "Tokens produced by POS tag.",
		}, []string{"pos"}),
		unknownTokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kotok",
			Subsystem: "tokenizer",
			Name:      "unknown_tokens_total",
			Help:      "Tokens not found in the dictionary.",
		}),
		inputRunes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kotok",
			Subsystem: "tokenizer",
			Name:      "input_runes",
			Help:      "Length of tokenized inputs in characters.",
			Buckets:   prometheus.ExponentialBuckets(8, 4, 8),
		}),
	}

	m.requests = register(reg, m.requests)
	m.requestLatency = register(reg, m.requestLatency)
	m.tokens = register(reg, m.tokens)
	m.unknownTokens = register(reg, m.unknownTokens)
	m.inputRunes = register(reg, m.inputRunes)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, status).Inc()
	m.requestLatency.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveTokens records the tokens produced for one input of inputRunes
// characters.
func (m *Metrics) ObserveTokens(inputRunes int, tokens []token.Token) {
	if m == nil {
		return
	}
	m.inputRunes.Observe(float64(inputRunes))
	for _, t := range tokens {
		m.tokens.WithLabelValues(t.Pos.String()).Inc()
		if t.Unknown {
			m.unknownTokens.Inc()
		}
	}
}
