package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromCounters(t *testing.T) {
	p := NewProm("mediapost", prometheus.NewRegistry())

	p.IncPostOperation("delete", "deleted_orphaned_blob")
	p.IncPostOperation("delete", "deleted_orphaned_blob")
	p.IncBlobFallback("list")
	p.IncLifecycleEvent("post.created")
	p.IncSubscriberFailure("post.created", "audit")

	assert.Equal(t, 2.0, testutil.ToFloat64(p.postOperations.WithLabelValues("delete", "deleted_orphaned_blob")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.blobFallbacks.WithLabelValues("list")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.lifecycleEvents.WithLabelValues("post.created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.subscriberFailures.WithLabelValues("post.created", "audit")))
}

func TestHandlerExposesRegisteredCollectors(t *testing.T) {
	p := NewProm("mediapost", nil)
	p.ObserveRequest("GET", "/posts/", "200", 0.01)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `mediapost_http_requests_total{method="GET",route="/posts/",status="200"} 1`))
}

func TestNoopSatisfiesInterface(t *testing.T) {
	var m Metrics = Noop{}
	m.IncPostOperation("upload", "success")
}
