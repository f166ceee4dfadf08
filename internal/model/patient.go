package model

type Patient struct {
	ID                    string        `json:"id"`
	Name                  string        `json:"name" validate:"required" label:"Patient name"`
	DOB                   string        `json:"dob" validate:"required,datetime=2006-01-02" label:"Date of Birth"`
	Contact               string        `json:"contact" validate:"required" label:"Contact information"`
	Status                PatientStatus `json:"status" validate:"required,oneof=ACTIVE INACTIVE PENDING_REGISTRATION DISCHARGED" label:"Status"`
	MedicalHistorySummary string        `json:"medicalHistorySummary"`
	AdmittedDate          string        `json:"admittedDate" validate:"omitempty,datetime=2006-01-02" label:"Admitted date"`
}

func (p Patient) Kind() EntityKind      { return KindPatient }
func (p Patient) EntityID() string      { return p.ID }
func (p Patient) DisplayName() string   { return p.Name }
func (p Patient) CurrentStatus() string { return string(p.Status) }
func (p Patient) PatientRef() string    { return p.ID }
