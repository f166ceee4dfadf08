package model

import "strings"

// ScreenID names a navigable view.
type ScreenID string

const (
	ScreenLogin     ScreenID = "LOGIN"
	ScreenDashboard ScreenID = "DASHBOARD"
	ScreenAuditLogs ScreenID = "AUDIT_LOGS"
	ScreenSettings  ScreenID = "SETTINGS"

	ScreenPatientsList  ScreenID = "PATIENTS_LIST"
	ScreenPatientDetail ScreenID = "PATIENT_DETAIL"
	ScreenPatientForm   ScreenID = "PATIENT_FORM"

	ScreenAppointmentsList  ScreenID = "APPOINTMENTS_LIST"
	ScreenAppointmentDetail ScreenID = "APPOINTMENT_DETAIL"
	ScreenAppointmentForm   ScreenID = "APPOINTMENT_FORM"

	ScreenDoctorsList  ScreenID = "DOCTORS_LIST"
	ScreenDoctorDetail ScreenID = "DOCTOR_DETAIL"
	ScreenDoctorForm   ScreenID = "DOCTOR_FORM"

	ScreenNursesList  ScreenID = "NURSES_LIST"
	ScreenNurseDetail ScreenID = "NURSE_DETAIL"
	ScreenNurseForm   ScreenID = "NURSE_FORM"

	ScreenTreatmentsList  ScreenID = "TREATMENTS_LIST"
	ScreenTreatmentDetail ScreenID = "TREATMENT_DETAIL"
	ScreenTreatmentForm   ScreenID = "TREATMENT_FORM"

	ScreenMedicalRecordsList  ScreenID = "MEDICAL_RECORDS_LIST"
	ScreenMedicalRecordDetail ScreenID = "MEDICAL_RECORD_DETAIL"
	ScreenMedicalRecordForm   ScreenID = "MEDICAL_RECORD_FORM"

	// Patient portal views, scoped to the signed-in patient.
	ScreenMyAppointments   ScreenID = "MY_APPOINTMENTS"
	ScreenMyMedicalRecords ScreenID = "MY_MEDICAL_RECORDS"
	ScreenMyProfile        ScreenID = "MY_PROFILE"
)

type screenInfo struct {
	kind EntityKind
	list ScreenID
}

var screens = map[ScreenID]screenInfo{
	ScreenLogin:     {},
	ScreenDashboard: {},
	ScreenAuditLogs: {},
	ScreenSettings:  {},

	ScreenPatientsList:  {kind: KindPatient, list: ScreenPatientsList},
	ScreenPatientDetail: {kind: KindPatient, list: ScreenPatientsList},
	ScreenPatientForm:   {kind: KindPatient, list: ScreenPatientsList},

	ScreenAppointmentsList:  {kind: KindAppointment, list: ScreenAppointmentsList},
	ScreenAppointmentDetail: {kind: KindAppointment, list: ScreenAppointmentsList},
	ScreenAppointmentForm:   {kind: KindAppointment, list: ScreenAppointmentsList},

	ScreenDoctorsList:  {kind: KindDoctor, list: ScreenDoctorsList},
	ScreenDoctorDetail: {kind: KindDoctor, list: ScreenDoctorsList},
	ScreenDoctorForm:   {kind: KindDoctor, list: ScreenDoctorsList},

	ScreenNursesList:  {kind: KindNurse, list: ScreenNursesList},
	ScreenNurseDetail: {kind: KindNurse, list: ScreenNursesList},
	ScreenNurseForm:   {kind: KindNurse, list: ScreenNursesList},

	ScreenTreatmentsList:  {kind: KindTreatment, list: ScreenTreatmentsList},
	ScreenTreatmentDetail: {kind: KindTreatment, list: ScreenTreatmentsList},
	ScreenTreatmentForm:   {kind: KindTreatment, list: ScreenTreatmentsList},

	ScreenMedicalRecordsList:  {kind: KindMedicalRecord, list: ScreenMedicalRecordsList},
	ScreenMedicalRecordDetail: {kind: KindMedicalRecord, list: ScreenMedicalRecordsList},
	ScreenMedicalRecordForm:   {kind: KindMedicalRecord, list: ScreenMedicalRecordsList},

	ScreenMyAppointments:   {kind: KindAppointment, list: ScreenMyAppointments},
	ScreenMyMedicalRecords: {kind: KindMedicalRecord, list: ScreenMyMedicalRecords},
	ScreenMyProfile:        {kind: KindPatient},
}

// ParseScreen accepts a screen identifier in any case.
func ParseScreen(s string) (ScreenID, bool) {
	id := ScreenID(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := screens[id]
	return id, ok
}

// Valid reports whether s is part of the closed screen set.
func (s ScreenID) Valid() bool {
	_, ok := screens[s]
	return ok
}

// EntityKind returns the record kind a screen displays, if any.
func (s ScreenID) EntityKind() (EntityKind, bool) {
	info, ok := screens[s]
	if !ok || info.kind == "" {
		return "", false
	}
	return info.kind, true
}

// ListScreen returns the list view a detail or form screen belongs to.
func (s ScreenID) ListScreen() (ScreenID, bool) {
	info, ok := screens[s]
	if !ok || info.list == "" {
		return "", false
	}
	return info.list, true
}

// IsForm reports whether s is a create/edit form.
func (s ScreenID) IsForm() bool {
	return strings.HasSuffix(string(s), "_FORM")
}

// IsRoot reports whether navigating to s resets the breadcrumb trail.
func (s ScreenID) IsRoot() bool {
	return s == ScreenDashboard || s == ScreenLogin
}

// DetailScreen returns the detail view for kind.
func DetailScreen(kind EntityKind) ScreenID {
	return ScreenID(string(kind) + "_DETAIL")
}

// FormScreen returns the create/edit form for kind.
func FormScreen(kind EntityKind) ScreenID {
	return ScreenID(string(kind) + "_FORM")
}

// ListScreenFor returns the staff list view for kind.
func ListScreenFor(kind EntityKind) ScreenID {
	l, _ := DetailScreen(kind).ListScreen()
	return l
}
