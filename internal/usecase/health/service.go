package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates a critical component is failing.
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

const checkTimeout = 3 * time.Second

// Component is a named dependency. Critical components turn the report Unhealthy.
type Component struct {
	Name     string
	Pinger   Pinger
	Critical bool
}

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	components []Component
}

// New creates a Service. Components with a nil Pinger are skipped.
func New(components ...Component) *Service {
	cs := make([]Component, 0, len(components))
	for _, c := range components {
		if c.Pinger != nil {
			cs = append(cs, c)
		}
	}
	return &Service{components: cs}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.components))
	status := Healthy

	for _, c := range s.components {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := c.Pinger.Ping(cctx)
		cancel()

		if err == nil {
			checks[c.Name] = CheckOK
			continue
		}
		checks[c.Name] = CheckError
		if c.Critical {
			status = Unhealthy
		} else if status == Healthy {
			status = Degraded
		}
	}

	return Report{Status: status, Checks: checks}
}
