package monitoring_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/sitecms/internal/database/testutil"
	"github.com/charlesng35/sitecms/internal/monitoring"
	"github.com/charlesng35/sitecms/internal/monitoring/checks"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthManagerEvaluate(t *testing.T) {
	t.Parallel()

	manager := monitoring.NewHealthManager()
	manager.RegisterReadiness(monitoring.NewCheck("database", func(ctx context.Context) monitoring.ProbeResult {
		return monitoring.ProbeResult{Status: monitoring.StatusUp}
	}))
	manager.RegisterReadiness(monitoring.NewCheck("blob", func(ctx context.Context) monitoring.ProbeResult {
		return monitoring.ProbeResult{Status: monitoring.StatusDown, Details: "connection refused"}
	}))

	report := manager.EvaluateReadiness(context.Background())
	require.False(t, report.Success)
	require.Equal(t, monitoring.StatusDown, report.Status)
	require.Len(t, report.Checks, 2)
	require.Equal(t, "database", report.Checks[0].Component)
	require.Equal(t, "blob", report.Checks[1].Component)
}

func TestHealthManagerRecoversPanickingProbe(t *testing.T) {
	t.Parallel()

	manager := monitoring.NewHealthManager()
	manager.RegisterLiveness(monitoring.NewCheck("broken", func(ctx context.Context) monitoring.ProbeResult {
		panic("boom")
	}))

	report := manager.EvaluateLiveness(context.Background())
	require.False(t, report.Success)
	require.Len(t, report.Checks, 1)
	require.Equal(t, "broken", report.Checks[0].Component)
	require.Equal(t, "boom", report.Checks[0].Details)
}

func TestHealthManagerSummaryReportsUptime(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	manager := monitoring.NewHealthManager(monitoring.WithHealthClock(clock))
	manager.RegisterLiveness(monitoring.NewCheck("process", func(context.Context) monitoring.ProbeResult {
		return monitoring.ProbeResult{Status: monitoring.StatusUp}
	}))
	manager.RegisterReadiness(monitoring.NewCheck("redis", func(context.Context) monitoring.ProbeResult {
		return monitoring.ProbeResult{Status: monitoring.StatusDegraded}
	}))

	now = now.Add(90 * time.Second)
	report := manager.Summary(context.Background())
	require.False(t, report.Success)
	require.Equal(t, monitoring.StatusDegraded, report.Status)
	require.Len(t, report.Checks, 2)
	require.Equal(t, "1m30s", report.Uptime)
	require.Equal(t, now, report.CheckedAt)
}

func TestProbeTimeoutDegrades(t *testing.T) {
	t.Parallel()

	manager := monitoring.NewHealthManager()
	check := monitoring.NewCheck("slow", func(ctx context.Context) monitoring.ProbeResult {
		<-ctx.Done()
		return monitoring.ResultFromError("slow", ctx.Err(), 0)
	})
	check.Timeout = 10 * time.Millisecond
	manager.RegisterReadiness(check)

	report := manager.EvaluateReadiness(context.Background())
	require.Equal(t, monitoring.StatusDegraded, report.Status)
}

func TestDatabaseCheck(t *testing.T) {
	t.Parallel()

	db := testutil.MustOpenTestDB(t)
	result := checks.Database(db, time.Second).Run(context.Background())
	require.Equal(t, monitoring.StatusUp, result.Status)

	missing := checks.Database(nil, time.Second).Run(context.Background())
	require.Equal(t, monitoring.StatusDown, missing.Status)
}

func TestBlobAndRedisChecks(t *testing.T) {
	t.Parallel()

	healthy := pingFunc(func(context.Context) error { return nil })
	failing := pingFunc(func(context.Context) error { return errors.New("refused") })

	require.Equal(t, monitoring.StatusUp, checks.Blob(healthy, "database", 0).Run(context.Background()).Status)
	require.Equal(t, monitoring.StatusDown, checks.Blob(failing, "s3", 0).Run(context.Background()).Status)

	require.Equal(t, monitoring.StatusUp, checks.Redis(nil, 0).Run(context.Background()).Status)
	require.Equal(t, monitoring.StatusDegraded, checks.Redis(failing, 0).Run(context.Background()).Status)
}
