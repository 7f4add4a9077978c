package service

import (
	"github.com/qcom/passguard/internal/metrics"
	"github.com/qcom/passguard/internal/models"
	"github.com/qcom/passguard/internal/password"
	"github.com/sirupsen/logrus"
)

// PasswordService wraps the password package with metrics. Passwords are
// never logged.
type PasswordService struct {
	metrics *metrics.Metrics
	logger  *logrus.Logger
}

func NewPasswordService(m *metrics.Metrics, logger *logrus.Logger) *PasswordService {
	return &PasswordService{metrics: m, logger: logger}
}

func (s *PasswordService) Evaluate(pw string) models.StrengthResult {
	res := password.Evaluate(pw)
	s.metrics.PasswordEvaluations.WithLabelValues(string(res.Rating)).Inc()
	return res
}

func (s *PasswordService) Generate(length int) (string, error) {
	pw, err := password.Generate(length)
	if err != nil {
		s.logger.WithError(err).WithField("length", length).Debug("Password generation rejected")
		return "", err
	}
	s.metrics.PasswordsGenerated.Inc()
	return pw, nil
}
