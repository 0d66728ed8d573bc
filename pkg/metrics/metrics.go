package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConsoleMetrics métricas Prometheus de la consola. Un *ConsoleMetrics nil no registra nada.
type ConsoleMetrics struct {
	AuthzDecisions *prometheus.CounterVec
	Mutations      *prometheus.CounterVec
	StoreWrites    *prometheus.CounterVec
	LoginAttempts  *prometheus.CounterVec
}

// New registra las métricas en reg (prometheus.DefaultRegisterer en producción).
func New(reg prometheus.Registerer) *ConsoleMetrics {
	f := promauto.With(reg)
	return &ConsoleMetrics{
		AuthzDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventario_console",
			Subsystem: "access",
			Name:      "decisions_total",
			Help:      "Decisiones de autorización por permiso y resultado.",
		}, []string{"permission", "outcome"}), // outcome: allowed, denied
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventario_console",
			Subsystem: "access",
			Name:      "mutations_total",
			Help:      "Operaciones aceptadas y persistidas por permiso.",
		}, []string{"permission"}),
		StoreWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventario_console",
			Subsystem: "store",
			Name:      "batch_writes_total",
			Help:      "Escrituras por lotes al almacén clave-valor por estado.",
		}, []string{"status"}), // status: ok, error
		LoginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventario_console",
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Intentos de inicio de sesión por resultado.",
		}, []string{"outcome"}), // outcome: success, invalid, suspended
	}
}

// Authz registra una decisión de autorización.
func (m *ConsoleMetrics) Authz(permission string, allowed bool) {
	if m == nil {
		return
	}
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	m.AuthzDecisions.WithLabelValues(permission, outcome).Inc()
}

// Mutation registra una operación aceptada.
func (m *ConsoleMetrics) Mutation(permission string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(permission).Inc()
}

// StoreWrite registra el resultado de un lote.
func (m *ConsoleMetrics) StoreWrite(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.StoreWrites.WithLabelValues(status).Inc()
}

// Login registra un intento de inicio de sesión.
func (m *ConsoleMetrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}
