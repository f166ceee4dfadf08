package rbac

import (
	"github.com/jwalitptl/clinic-records/internal/model"
)

// Resource is an entry of an edit, create or delete set. Most are entity
// kinds; the patient portal uses pseudo-resources such as MY_PROFILE, and a
// "<KIND>_FIELD" entry grants field-level edit of that kind.
type Resource string

const (
	ResourceMyProfile          Resource = "MY_PROFILE"
	ResourceAppointmentRequest Resource = "APPOINTMENT_REQUEST"
)

// FieldResource returns the field-level edit marker for target.
func FieldResource(target string) Resource {
	return Resource(target + "_FIELD")
}

type PermissionSet struct {
	CanView         []model.ScreenID
	CanEdit         []Resource
	CanCreate       []Resource
	CanDelete       []Resource
	CanApprove      bool
	CanViewAuditLog bool
}

func (p PermissionSet) views(screen model.ScreenID) bool {
	for _, s := range p.CanView {
		if s == screen {
			return true
		}
	}
	return false
}

func has(set []Resource, r Resource) bool {
	for _, v := range set {
		if v == r {
			return true
		}
	}
	return false
}

func kinds(ks ...model.EntityKind) []Resource {
	out := make([]Resource, len(ks))
	for i, k := range ks {
		out[i] = Resource(k)
	}
	return out
}

var allKinds = []model.EntityKind{
	model.KindPatient,
	model.KindAppointment,
	model.KindDoctor,
	model.KindNurse,
	model.KindTreatment,
	model.KindMedicalRecord,
}

// RolePermissions is the static permission matrix. A role missing from the
// map has no permissions at all.
var RolePermissions = map[model.Role]PermissionSet{
	model.RoleHospitalAdmin: {
		CanView: []model.ScreenID{
			model.ScreenDashboard, model.ScreenPatientsList, model.ScreenAppointmentsList,
			model.ScreenDoctorsList, model.ScreenNursesList, model.ScreenTreatmentsList,
			model.ScreenMedicalRecordsList, model.ScreenAuditLogs, model.ScreenSettings,
		},
		CanEdit:         kinds(allKinds...),
		CanCreate:       kinds(allKinds...),
		CanDelete:       kinds(allKinds...),
		CanApprove:      true,
		CanViewAuditLog: true,
	},
	model.RoleDoctor: {
		CanView: []model.ScreenID{
			model.ScreenDashboard, model.ScreenPatientsList, model.ScreenAppointmentsList,
			model.ScreenMedicalRecordsList, model.ScreenTreatmentsList,
		},
		CanEdit:    kinds(model.KindPatient, model.KindAppointment, model.KindTreatment, model.KindMedicalRecord),
		CanCreate:  kinds(model.KindTreatment, model.KindMedicalRecord),
		CanApprove: true,
	},
	model.RoleNurse: {
		CanView: []model.ScreenID{
			model.ScreenDashboard, model.ScreenPatientsList, model.ScreenAppointmentsList,
			model.ScreenMedicalRecordsList,
		},
		CanEdit:   kinds(model.KindPatient, model.KindMedicalRecord),
		CanCreate: kinds(model.KindMedicalRecord),
	},
	model.RoleReceptionist: {
		CanView: []model.ScreenID{
			model.ScreenDashboard, model.ScreenPatientsList, model.ScreenAppointmentsList,
		},
		CanEdit:   kinds(model.KindPatient, model.KindAppointment),
		CanCreate: kinds(model.KindPatient, model.KindAppointment),
		CanDelete: kinds(model.KindAppointment),
	},
	model.RolePatient: {
		CanView: []model.ScreenID{
			model.ScreenDashboard, model.ScreenMyAppointments, model.ScreenMyMedicalRecords,
			model.ScreenMyProfile,
		},
		CanEdit:   []Resource{ResourceMyProfile},
		CanCreate: []Resource{ResourceAppointmentRequest},
	},
}

// CanPerform answers whether role may perform capability on target. It never
// fails: unknown roles, capabilities and targets are denied.
func CanPerform(role model.Role, capability model.Capability, target string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	switch capability {
	case model.CapabilityView:
		return perms.views(model.ScreenID(target))
	case model.CapabilityEdit:
		return has(perms.CanEdit, Resource(target)) || has(perms.CanEdit, FieldResource(target))
	case model.CapabilityCreate:
		return has(perms.CanCreate, Resource(target))
	case model.CapabilityDelete:
		return has(perms.CanDelete, Resource(target))
	case model.CapabilityApprove:
		return perms.CanApprove
	case model.CapabilityViewAudit:
		return perms.CanViewAuditLog
	default:
		return false
	}
}
