// Package health aggregates component health into one report.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckNotConfigured indicates a provider without credentials. It does
	// not degrade the aggregate: passthrough services are optional.
	CheckNotConfigured CheckResult = "not_configured"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	embedding EmbeddingChecker
	chat      Configurable
	speech    Configurable
}

// New creates a Service. embedding, chat, and speech can be nil.
func New(db DBPinger, embedding EmbeddingChecker, chat, speech Configurable) *Service {
	return &Service{db: db, embedding: embedding, chat: chat, speech: speech}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["store"] = CheckError
	} else {
		checks["store"] = CheckOK
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	if s.chat != nil {
		checks["chat"] = configuredResult(s.chat)
	}
	if s.speech != nil {
		checks["speech"] = configuredResult(s.speech)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func configuredResult(c Configurable) CheckResult {
	if c.Configured() {
		return CheckOK
	}
	return CheckNotConfigured
}
