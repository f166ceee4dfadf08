package navigation

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository"
	"github.com/jwalitptl/clinic-records/internal/repository/memory"
	"github.com/jwalitptl/clinic-records/pkg/metrics"
)

type fakeSession struct{ active bool }

func (f *fakeSession) Active() bool { return f.active }

func newTestRouter(t *testing.T) (*Router, *fakeSession, *memory.Store) {
	t.Helper()
	store, err := memory.NewSeededStore()
	require.NoError(t, err)
	sess := &fakeSession{active: true}
	return NewRouter(store, sess, nil, nil), sess, store
}

func id(v string) model.Params {
	return model.Params{"id": v}
}

func TestInitialState(t *testing.T) {
	r, _, _ := newTestRouter(t)

	state := r.State()
	assert.Equal(t, model.ScreenLogin, state.Screen)
	assert.Equal(t, []string{"Login"}, state.Labels())
}

func TestNavigateAppendsAndResets(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRouter(t)

	r.Navigate(ctx, model.ScreenDashboard, nil)
	r.Navigate(ctx, model.ScreenPatientsList, nil)
	state := r.Navigate(ctx, model.ScreenPatientDetail, id("pat1"))

	assert.Equal(t, model.ScreenPatientDetail, state.Screen)
	assert.Equal(t, "pat1", state.Params.ID())
	assert.Equal(t, []string{"Dashboard", "Patients", "Alice Smith"}, state.Labels())

	state = r.Navigate(ctx, model.ScreenDashboard, nil)
	assert.Equal(t, []string{"Dashboard"}, state.Labels())
}

func TestNavigateTruncatesToExistingCrumb(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRouter(t)

	r.Navigate(ctx, model.ScreenDashboard, nil)
	r.Navigate(ctx, model.ScreenPatientsList, nil)
	r.Navigate(ctx, model.ScreenPatientDetail, id("pat1"))
	r.Navigate(ctx, model.ScreenPatientForm, id("pat1"))

	state := r.Navigate(ctx, model.ScreenPatientsList, model.Params{})
	assert.Equal(t, []string{"Dashboard", "Patients"}, state.Labels())

	// same screen, different params is a new crumb
	r.Navigate(ctx, model.ScreenPatientDetail, id("pat1"))
	state = r.Navigate(ctx, model.ScreenPatientDetail, id("pat2"))
	assert.Equal(t, []string{"Dashboard", "Patients", "Alice Smith", "Bob Johnson"}, state.Labels())
}

func TestNavigateRevisitKeepsExistingCrumb(t *testing.T) {
	ctx := context.Background()
	r, _, store := newTestRouter(t)

	r.Navigate(ctx, model.ScreenDashboard, nil)
	r.Navigate(ctx, model.ScreenPatientsList, nil)
	r.Navigate(ctx, model.ScreenPatientDetail, id("pat1"))
	r.Navigate(ctx, model.ScreenPatientForm, id("pat1"))

	err := store.WithTx(ctx, func(tx repository.RecordTx) error {
		e, err := tx.Get(model.KindPatient, "pat1")
		if err != nil {
			return err
		}
		p := e.(model.Patient)
		p.Name = "Alicia"
		return tx.Replace(p)
	})
	require.NoError(t, err)

	state := r.Navigate(ctx, model.ScreenPatientDetail, id("pat1"))
	assert.Equal(t, model.ScreenPatientDetail, state.Screen)
	assert.Equal(t, []string{"Dashboard", "Patients", "Alice Smith"}, state.Labels())

	// a fresh crumb picks up the new name
	state = r.Navigate(ctx, model.ScreenPatientForm, id("pat1"))
	assert.Equal(t, "Edit Alicia", state.Labels()[3])
}

func TestNavigateSignedOutResets(t *testing.T) {
	ctx := context.Background()
	r, sess, _ := newTestRouter(t)

	r.Navigate(ctx, model.ScreenDashboard, nil)
	r.Navigate(ctx, model.ScreenPatientsList, nil)

	sess.active = false
	state := r.Navigate(ctx, model.ScreenLogin, nil)
	assert.Equal(t, []model.Breadcrumb{{Screen: model.ScreenLogin, Label: "Login", Params: model.Params{}}}, state.Path)
}

func TestLabels(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRouter(t)

	assert.Equal(t, "Alice Smith", r.Label(ctx, model.ScreenPatientDetail, id("pat1")))
	assert.Equal(t, "Alice Smith", r.Label(ctx, model.ScreenMyProfile, id("pat1")))
	assert.Equal(t, "Visit Note", r.Label(ctx, model.ScreenMedicalRecordDetail, id("med1")))
	assert.Equal(t, "Edit Dr. Emily Chen", r.Label(ctx, model.ScreenDoctorForm, id("doc1")))
	assert.Equal(t, "New Medical Record", r.Label(ctx, model.ScreenMedicalRecordForm, nil))
	assert.Equal(t, "Medical Records", r.Label(ctx, model.ScreenMedicalRecordsList, nil))
	assert.Equal(t, "My Appointments", r.Label(ctx, model.ScreenMyAppointments, nil))
	assert.Equal(t, "Audit Logs", r.Label(ctx, model.ScreenAuditLogs, id("pat1")))

	// missing records fall back to a placeholder, and labels do not drift
	assert.Equal(t, "ID: pat99", r.Label(ctx, model.ScreenPatientDetail, id("pat99")))
	assert.Equal(t, "ID: pat99", r.Label(ctx, model.ScreenPatientDetail, id("pat99")))
}

func TestLabelsFollowRecordContents(t *testing.T) {
	ctx := context.Background()
	r, _, store := newTestRouter(t)

	require.NoError(t, store.Load([]model.Entity{model.Nurse{ID: "nur9", Name: "Nurse Ana"}}, nil))
	assert.Equal(t, "Nurse Ana", r.Label(ctx, model.ScreenNurseDetail, id("nur9")))
}

func TestBack(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRouter(t)

	assert.Equal(t, model.ScreenLogin, r.Back(ctx).Screen)

	r.Navigate(ctx, model.ScreenDashboard, nil)
	r.Navigate(ctx, model.ScreenAppointmentsList, nil)
	r.Navigate(ctx, model.ScreenAppointmentDetail, id("app1"))

	state := r.Back(ctx)
	assert.Equal(t, model.ScreenAppointmentsList, state.Screen)
	assert.Equal(t, []string{"Dashboard", "Appointments"}, state.Labels())
}

func TestStateIsACopy(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRouter(t)

	state := r.Navigate(ctx, model.ScreenDashboard, nil)
	state.Path[0].Label = "tampered"
	assert.Equal(t, "Dashboard", r.State().Path[0].Label)
}

func TestNavigationMetrics(t *testing.T) {
	m := metrics.NewMetrics("test", nil)
	r := NewRouter(nil, &fakeSession{active: true}, nil, m)

	r.Navigate(context.Background(), model.ScreenDashboard, nil)
	r.Navigate(context.Background(), model.ScreenDashboard, nil)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Navigations.WithLabelValues("DASHBOARD")))
	assert.Equal(t, "ID: pat1", r.Label(context.Background(), model.ScreenPatientDetail, id("pat1")))
}
