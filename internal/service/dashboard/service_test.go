package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-records/internal/repository/memory"
	"github.com/jwalitptl/clinic-records/internal/service/audit"
	"github.com/jwalitptl/clinic-records/internal/service/dashboard"
	"github.com/jwalitptl/clinic-records/internal/service/records"
)

func newTestService(t *testing.T) *dashboard.Service {
	t.Helper()
	clock := func() time.Time { return time.Date(2024, 3, 28, 9, 0, 0, 0, time.UTC) }
	store, err := memory.NewSeededStore(memory.WithClock(clock))
	require.NoError(t, err)
	auditor := audit.NewService(store, audit.DefaultAuditedKinds, nil, nil)
	rec := records.NewService(store, auditor, nil, nil, nil, nil)
	return dashboard.NewService(rec, auditor, clock)
}

func TestStats(t *testing.T) {
	stats, err := newTestService(t).Stats(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 7, stats.TotalPatients)
	assert.Equal(t, 4, stats.ActiveAppointments)
	assert.Equal(t, 1, stats.CompletedToday)
	assert.Equal(t, 1, stats.PendingTreatments)

	require.Len(t, stats.RecentActivity, 5)
	assert.Equal(t, "log5", stats.RecentActivity[0].AuditID)
	assert.Equal(t, "UPDATE Medical Record (Vitals)", stats.RecentActivity[0].Description)
	assert.Equal(t, "APPROVE Treatment (Asthma Maintenance)", stats.RecentActivity[1].Description)
	assert.Equal(t, "CREATE Patient (pat8)", stats.RecentActivity[4].Description)
}

func TestStatsScopedToPatient(t *testing.T) {
	stats, err := newTestService(t).Stats(context.Background(), "pat1")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalPatients)
	assert.Equal(t, 2, stats.ActiveAppointments)
	assert.Equal(t, 0, stats.CompletedToday)
	assert.Equal(t, 0, stats.PendingTreatments)

	require.Len(t, stats.RecentActivity, 1)
	assert.Equal(t, "UPDATE Appointment (Follow-up)", stats.RecentActivity[0].Description)
}
