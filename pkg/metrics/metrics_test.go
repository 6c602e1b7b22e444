package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveAuthEvent(t *testing.T) {
	before := testutil.ToFloat64(authEvents.WithLabelValues("login", "success"))
	ObserveAuthEvent("login", "success")
	ObserveAuthEvent("login", "success")
	assert.Equal(t, before+2, testutil.ToFloat64(authEvents.WithLabelValues("login", "success")))
}

func TestObserveHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/post", "200"))
	ObserveHTTPRequest("GET", "/post", "200", 5*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/post", "200")))
}

func TestObserveSessionRevocation(t *testing.T) {
	before := testutil.ToFloat64(sessionRevocations)
	ObserveSessionRevocation()
	assert.Equal(t, before+1, testutil.ToFloat64(sessionRevocations))
}
