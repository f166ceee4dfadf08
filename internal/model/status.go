package model

// StatusOption pairs a status key with its human label.
type StatusOption struct {
	Key   string
	Label string
}

type PatientStatus string

const (
	PatientStatusActive              PatientStatus = "ACTIVE"
	PatientStatusInactive            PatientStatus = "INACTIVE"
	PatientStatusPendingRegistration PatientStatus = "PENDING_REGISTRATION"
	PatientStatusDischarged          PatientStatus = "DISCHARGED"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled         AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed         AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted         AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled         AppointmentStatus = "CANCELLED"
	AppointmentStatusPendingReschedule AppointmentStatus = "PENDING_RESCHEDULE"
)

// StaffStatus applies to doctors and nurses.
type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "ACTIVE"
	StaffStatusOnLeave  StaffStatus = "ON_LEAVE"
	StaffStatusInactive StaffStatus = "INACTIVE"
)

type TreatmentStatus string

const (
	TreatmentStatusPending    TreatmentStatus = "PENDING"
	TreatmentStatusApproved   TreatmentStatus = "APPROVED"
	TreatmentStatusInProgress TreatmentStatus = "IN_PROGRESS"
	TreatmentStatusCompleted  TreatmentStatus = "COMPLETED"
	TreatmentStatusRejected   TreatmentStatus = "REJECTED"
)

var patientStatuses = []StatusOption{
	{string(PatientStatusActive), "Active"},
	{string(PatientStatusInactive), "Inactive"},
	{string(PatientStatusPendingRegistration), "Pending Registration"},
	{string(PatientStatusDischarged), "Discharged"},
}

var appointmentStatuses = []StatusOption{
	{string(AppointmentStatusScheduled), "Scheduled"},
	{string(AppointmentStatusConfirmed), "Confirmed"},
	{string(AppointmentStatusCompleted), "Completed"},
	{string(AppointmentStatusCancelled), "Cancelled"},
	{string(AppointmentStatusPendingReschedule), "Pending Reschedule"},
}

var staffStatuses = []StatusOption{
	{string(StaffStatusActive), "Active"},
	{string(StaffStatusOnLeave), "On Leave"},
	{string(StaffStatusInactive), "Inactive"},
}

var treatmentStatuses = []StatusOption{
	{string(TreatmentStatusPending), "Pending Approval"},
	{string(TreatmentStatusApproved), "Approved"},
	{string(TreatmentStatusInProgress), "In Progress"},
	{string(TreatmentStatusCompleted), "Completed"},
	{string(TreatmentStatusRejected), "Rejected"},
}

// StatusLabel returns the display label of status for kind. Unknown statuses
// yield an empty string.
func StatusLabel(kind EntityKind, status string) string {
	spec, ok := kindSpecs[kind]
	if !ok {
		return ""
	}
	for _, opt := range spec.Statuses {
		if opt.Key == status {
			return opt.Label
		}
	}
	return ""
}

// ValidStatus reports whether status belongs to kind's closed enumeration.
func ValidStatus(kind EntityKind, status string) bool {
	return StatusLabel(kind, status) != ""
}
