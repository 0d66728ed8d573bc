package metrics_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-console/pkg/metrics"
)

func TestConsoleMetrics_Contadores(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.Authz("products:create", false)
	m.Authz("products:create", true)
	m.Authz("products:create", true)
	m.StoreWrite(nil)
	m.StoreWrite(errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthzDecisions.WithLabelValues("products:create", "denied")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthzDecisions.WithLabelValues("products:create", "allowed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreWrites.WithLabelValues("error")))
}

func TestConsoleMetrics_NilNoOp(t *testing.T) {
	var m *metrics.ConsoleMetrics
	assert.NotPanics(t, func() {
		m.Authz("x", true)
		m.Mutation("x")
		m.StoreWrite(nil)
		m.Login("success")
	})
}
