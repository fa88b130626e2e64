package checks

import (
	"context"
	"time"

	"github.com/charlesng35/sitecms/internal/monitoring"
)

const defaultPingTimeout = 2 * time.Second

// Pinger is any dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Blob returns a readiness probe for the blob backend.
func Blob(store Pinger, backend string, timeout time.Duration) monitoring.Check {
	return ping("blob", store, backend, timeout, monitoring.StatusDown)
}

// Redis returns a readiness probe for the shared cache. A nil client means redis is not in use
// and the probe reports up. An unreachable redis only degrades readiness because the limiter
// fails open without it.
func Redis(client Pinger, timeout time.Duration) monitoring.Check {
	if client == nil {
		return monitoring.NewCheck("redis", func(context.Context) monitoring.ProbeResult {
			return monitoring.ProbeResult{Status: monitoring.StatusUp, Details: "redis disabled"}
		})
	}
	return ping("redis", client, "", timeout, monitoring.StatusDegraded)
}

func ping(name string, target Pinger, details string, timeout time.Duration, onFailure monitoring.ProbeStatus) monitoring.Check {
	check := monitoring.NewCheck(name, func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()
		if target == nil {
			return monitoring.ProbeResult{Status: onFailure, Details: name + " not configured"}
		}
		if err := target.Ping(ctx); err != nil {
			result := monitoring.ResultFromError(name, err, time.Since(start))
			if result.Status == monitoring.StatusDown {
				result.Status = onFailure
			}
			return result
		}
		return monitoring.ProbeResult{
			Status:   monitoring.StatusUp,
			Details:  details,
			Duration: time.Since(start),
		}
	})
	check.Timeout = chooseTimeout(timeout, defaultPingTimeout)
	return check
}
