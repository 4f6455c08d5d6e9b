package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTwiceIsFine(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func TestObserveDecisionCounts(t *testing.T) {
	c := AuthzDecisions.WithLabelValues("RetailVerification:List", "trn:test", "denied")
	before := testutil.ToFloat64(c)

	ObserveDecision("RetailVerification:List", "trn:test", "denied", 5*time.Millisecond)
	ObserveDecision("RetailVerification:List", "trn:test", "denied", 0)

	assert.Equal(t, before+2, testutil.ToFloat64(c))
}

func TestHandlerExposesDispatchCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	ObserveDispatch("search", "succeeded", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(string(body), `indexgate_dispatch_total{operation="search",outcome="succeeded"}`))
}
