package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/token"
)

func TestObserveRequest(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := MustNew(reg)

	m.ObserveRequest("/v1/tokenize", "200", 5*time.Millisecond)
	m.ObserveRequest("/v1/tokenize", "200", 7*time.Millisecond)
	m.ObserveRequest("/v1/tokenize", "400", time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(m.requests.WithLabelValues("/v1/tokenize", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.requests.WithLabelValues("/v1/tokenize", "400")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestLatency))
}

func TestObserveTokens(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := MustNew(reg)

	unknown := token.New("가나", pos.Noun, 3)
	unknown.Unknown = true
	m.ObserveTokens(5, []token.Token{
		token.New("사랑", pos.Noun, 0),
		token.New("을", pos.Josa, 2),
		unknown,
	})

	assert.InDelta(t, 2, testutil.ToFloat64(m.tokens.WithLabelValues("Noun")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.tokens.WithLabelValues("Josa")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.unknownTokens), 0)
}

func TestMustNewReusesRegistered(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := MustNew(reg)
	b := MustNew(reg)

	a.ObserveRequest("/healthz", "200", time.Millisecond)
	assert.InDelta(t, 1, testutil.ToFloat64(b.requests.WithLabelValues("/healthz", "200")), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilMetrics(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("/", "200", time.Second)
		m.ObserveTokens(1, []token.Token{token.New("a", pos.Alpha, 0)})
	})
}
