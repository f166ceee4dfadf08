package model

// MedicalRecord carries no status; RecordedBy references a doctor or nurse id.
type MedicalRecord struct {
	ID         string `json:"id"`
	PatientID  string `json:"patientId" validate:"required" label:"Patient"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02" label:"Date"`
	Type       string `json:"type" validate:"required" label:"Record type"`
	Details    string `json:"details" validate:"required" label:"Details"`
	RecordedBy string `json:"recordedBy"`
}

func (m MedicalRecord) Kind() EntityKind      { return KindMedicalRecord }
func (m MedicalRecord) EntityID() string      { return m.ID }
func (m MedicalRecord) DisplayName() string   { return m.Type }
func (m MedicalRecord) CurrentStatus() string { return "" }
func (m MedicalRecord) PatientRef() string    { return m.PatientID }
