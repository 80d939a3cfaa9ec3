package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db    DBPinger
	index IndexChecker
	name  string
}

// New creates a Service. index can be nil, in which case only the database is checked.
func New(db DBPinger, index IndexChecker, indexName string) *Service {
	return &Service{db: db, index: index, name: indexName}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	if s.index != nil {
		// Not probed while the database is down.
		checks["index"] = CheckError
		if checks["database"] == CheckOK {
			if exists, err := s.index.IndexExists(ctx, s.name); err == nil && exists {
				checks["index"] = CheckOK
			}
		}
	}

	status := Healthy
	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}
	switch {
	case failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
