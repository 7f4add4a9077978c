package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "passguard"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultExpired = "expired"
)

type Metrics struct {
	PasswordEvaluations *prometheus.CounterVec
	PasswordsGenerated  prometheus.Counter
	OTPSends            *prometheus.CounterVec
	OTPVerifications    *prometheus.CounterVec
	SessionsCreated     prometheus.Counter
}

// New registers the collectors with reg. Pass prometheus.NewRegistry() in
// tests to avoid clashing with the default registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PasswordEvaluations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "password_evaluations_total",
			Help:      "Password strength evaluations by rating.",
		}, []string{"rating"}),
		PasswordsGenerated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passwords_generated_total",
			Help:      "Generated passwords.",
		}),
		OTPSends: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_sends_total",
			Help:      "OTP delivery attempts by result.",
		}, []string{"result"}),
		OTPVerifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_verifications_total",
			Help:      "OTP verification attempts by result.",
		}, []string{"result"}),
		SessionsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Sessions created.",
		}),
	}
}
