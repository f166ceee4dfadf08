package model

type Appointment struct {
	ID        string            `json:"id"`
	PatientID string            `json:"patientId" validate:"required" label:"Patient"`
	DoctorID  string            `json:"doctorId" validate:"required" label:"Doctor"`
	Date      string            `json:"date" validate:"required,datetime=2006-01-02" label:"Date"`
	Time      string            `json:"time" validate:"required" label:"Time"`
	Status    AppointmentStatus `json:"status" validate:"required,oneof=SCHEDULED CONFIRMED COMPLETED CANCELLED PENDING_RESCHEDULE" label:"Status"`
	Type      string            `json:"type" validate:"required" label:"Type"`
	Notes     string            `json:"notes"`
}

func (a Appointment) Kind() EntityKind      { return KindAppointment }
func (a Appointment) EntityID() string      { return a.ID }
func (a Appointment) DisplayName() string   { return a.Type }
func (a Appointment) CurrentStatus() string { return string(a.Status) }
func (a Appointment) PatientRef() string    { return a.PatientID }

// AppointmentTransitions lists, per target status, the statuses an
// appointment may move from through the workflow actions.
var AppointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusConfirmed:         {AppointmentStatusScheduled, AppointmentStatusPendingReschedule},
	AppointmentStatusCancelled:         {AppointmentStatusScheduled, AppointmentStatusConfirmed},
	AppointmentStatusPendingReschedule: {AppointmentStatusScheduled, AppointmentStatusConfirmed},
	AppointmentStatusCompleted:         {AppointmentStatusConfirmed, AppointmentStatusPendingReschedule},
}

// CanTransition reports whether the workflow allows from -> to.
func (a Appointment) CanTransition(to AppointmentStatus) bool {
	for _, from := range AppointmentTransitions[to] {
		if a.Status == from {
			return true
		}
	}
	return false
}
