package rbac_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/service/rbac"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/metrics"
)

func TestEveryRoleHasPermissions(t *testing.T) {
	for _, role := range model.Roles {
		perms, ok := rbac.RolePermissions[role]
		assert.True(t, ok, role)
		assert.Contains(t, perms.CanView, model.ScreenDashboard, role)
	}
}

func TestCanPerform(t *testing.T) {
	tests := []struct {
		name       string
		role       model.Role
		capability model.Capability
		target     string
		want       bool
	}{
		{"admin deletes patients", model.RoleHospitalAdmin, model.CapabilityDelete, "PATIENT", true},
		{"patient cannot delete patients", model.RolePatient, model.CapabilityDelete, "PATIENT", false},
		{"doctor views treatments", model.RoleDoctor, model.CapabilityView, "TREATMENTS_LIST", true},
		{"nurse cannot view treatments", model.RoleNurse, model.CapabilityView, "TREATMENTS_LIST", false},
		{"receptionist cancels appointments", model.RoleReceptionist, model.CapabilityDelete, "APPOINTMENT", true},
		{"receptionist cannot create treatments", model.RoleReceptionist, model.CapabilityCreate, "TREATMENT", false},
		{"doctor approves without target", model.RoleDoctor, model.CapabilityApprove, "", true},
		{"nurse cannot approve", model.RoleNurse, model.CapabilityApprove, "TREATMENT", false},
		{"only admin reads audit", model.RoleDoctor, model.CapabilityViewAudit, "", false},
		{"admin reads audit", model.RoleHospitalAdmin, model.CapabilityViewAudit, "", true},
		{"patient edits own profile", model.RolePatient, model.CapabilityEdit, "MY_PROFILE", true},
		{"patient requests appointment", model.RolePatient, model.CapabilityCreate, "APPOINTMENT_REQUEST", true},
		{"patient cannot edit patients", model.RolePatient, model.CapabilityEdit, "PATIENT", false},
		{"unknown role", model.Role("Janitor"), model.CapabilityView, "DASHBOARD", false},
		{"unknown capability", model.RoleHospitalAdmin, model.Capability("launch"), "PATIENT", false},
		{"unknown target", model.RoleHospitalAdmin, model.CapabilityEdit, "INVOICE", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rbac.CanPerform(tt.role, tt.capability, tt.target))
		})
	}
}

func TestCanPerformFieldLevelEdit(t *testing.T) {
	const role = model.Role("Auditor")
	rbac.RolePermissions[role] = rbac.PermissionSet{CanEdit: []rbac.Resource{rbac.FieldResource("MEDICAL_RECORD")}}
	t.Cleanup(func() { delete(rbac.RolePermissions, role) })

	assert.True(t, rbac.CanPerform(role, model.CapabilityEdit, "MEDICAL_RECORD"))
	assert.False(t, rbac.CanPerform(role, model.CapabilityEdit, "PATIENT"))
}

func TestAuthorize(t *testing.T) {
	m := metrics.NewMetrics("test", nil)
	s := rbac.NewService(nil, m)

	assert.NoError(t, s.Authorize(model.RoleHospitalAdmin, model.CapabilityDelete, "PATIENT"))

	err := s.Authorize(model.RoleNurse, model.CapabilityDelete, "PATIENT")
	assert.True(t, apperrors.IsForbidden(err))
	assert.Equal(t, "Nurse may not delete PATIENT", err.Error())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AccessDenied.WithLabelValues("delete")))
}

func TestAccessibleScreensIsACopy(t *testing.T) {
	s := rbac.NewService(nil, nil)

	screens := s.AccessibleScreens(model.RoleReceptionist)
	assert.Equal(t, []model.ScreenID{model.ScreenDashboard, model.ScreenPatientsList, model.ScreenAppointmentsList}, screens)

	screens[0] = model.ScreenSettings
	assert.Equal(t, model.ScreenDashboard, rbac.RolePermissions[model.RoleReceptionist].CanView[0])
	assert.Nil(t, s.AccessibleScreens(model.Role("Janitor")))
}
