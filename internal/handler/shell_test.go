package handler

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-records/internal/app"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

func newTestShell(t *testing.T) (*Shell, *bytes.Buffer) {
	t.Helper()
	a, err := app.New(nil, nil, nil, app.WithClock(func() time.Time {
		return time.Date(2024, 3, 28, 9, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	var out bytes.Buffer
	return NewShell(a, &out, nil), &out
}

func exec(t *testing.T, s *Shell, out *bytes.Buffer, line string) string {
	t.Helper()
	out.Reset()
	require.NoError(t, s.Exec(context.Background(), line), line)
	return out.String()
}

func TestSplitArgs(t *testing.T) {
	args, err := splitArgs(`create patient name="Jane Doe" dob=1990-05-01  contact=""`)
	require.NoError(t, err)
	assert.Equal(t, []string{"create", "patient", "name=Jane Doe", "dob=1990-05-01", "contact="}, args)

	_, err = splitArgs(`nav "PATIENTS_LIST`)
	assert.Error(t, err)
}

func TestSplitPairs(t *testing.T) {
	pairs, positional := splitPairs([]string{"pat1", "status=ACTIVE", "=x"})
	assert.Equal(t, map[string]string{"status": "ACTIVE"}, pairs)
	assert.Equal(t, []string{"pat1", "=x"}, positional)
}

func TestShellSession(t *testing.T) {
	s, out := newTestShell(t)

	got := exec(t, s, out, "login hospital-admin Dana")
	assert.Equal(t, "Signed in as Dana (Hospital Admin)\n[DASHBOARD] Dashboard\n", got)

	got = exec(t, s, out, "nav patients_list")
	assert.Equal(t, "[PATIENTS_LIST] Dashboard > Patients\n", got)

	got = exec(t, s, out, "nav patient_detail pat1")
	assert.Equal(t, "[PATIENT_DETAIL] Dashboard > Patients > Alice Smith\n", got)

	got = exec(t, s, out, "list patients status=ACTIVE")
	assert.Contains(t, got, "Alice Smith")
	assert.NotContains(t, got, "Bob Johnson")

	got = exec(t, s, out, `create patient name="Jane Doe" dob=1990-05-01 contact=555-0108`)
	assert.Equal(t, "Created PATIENT pat8\n[PATIENTS_LIST] Dashboard > Patients\n", got)

	got = exec(t, s, out, "show patient pat8")
	assert.Contains(t, got, "name: Jane Doe")
	assert.Contains(t, got, "status: ACTIVE (Active)")

	got = exec(t, s, out, "approve trt3")
	assert.Equal(t, "Treatment trt3 approved (Approved)\n[TREATMENTS_LIST] Dashboard > Patients > Treatments\n", got)

	got = exec(t, s, out, "audit trt3")
	assert.Contains(t, got, "Approved Initial Wellness Plan trt3 plan for patient pat3")
	assert.Contains(t, got, "2024-03-28T09:00:00Z")

	got = exec(t, s, out, "metrics")
	assert.Contains(t, got, "clinic_mutations_total")

	got = exec(t, s, out, "logout")
	assert.Equal(t, "[LOGIN] Login\n", got)
}

func TestShellErrors(t *testing.T) {
	s, out := newTestShell(t)
	ctx := context.Background()

	assert.True(t, apperrors.IsBadRequest(s.Exec(ctx, "frobnicate")))
	assert.Equal(t, apperrors.ErrUnauthorized, apperrors.CodeOf(s.Exec(ctx, "list patients")))

	exec(t, s, out, "login nurse")
	assert.Equal(t, "false\n", exec(t, s, out, "can delete patient"))
	assert.Equal(t, "true\n", exec(t, s, out, "can edit medical_record"))

	assert.True(t, apperrors.IsForbidden(s.Exec(ctx, "audit")))
	assert.True(t, apperrors.IsNotFound(s.Exec(ctx, "list invoices")))
	assert.ErrorIs(t, s.Exec(ctx, "exit"), ErrQuit)
}

func TestRun(t *testing.T) {
	s, out := newTestShell(t)

	script := strings.Join([]string{
		"login receptionist",
		"create patient dob=yesterday",
		"cancel app4",
		"quit",
		"where",
	}, "\n")
	require.NoError(t, s.Run(context.Background(), strings.NewReader(script)))

	got := out.String()
	assert.Contains(t, got, "> ")
	assert.Contains(t, got, "Receptionist User@DASHBOARD> ")
	assert.Contains(t, got, "error: validation failed\n")
	assert.Contains(t, got, "  name: Patient name is required.\n")
	assert.Contains(t, got, "  dob: Date of Birth must be a date in YYYY-MM-DD format.\n")
	assert.Contains(t, got, "cannot move from COMPLETED to CANCELLED")
	// nothing after quit runs
	assert.Equal(t, 1, strings.Count(got, "[DASHBOARD] Dashboard"))
}
