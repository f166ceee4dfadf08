package model

type Treatment struct {
	ID          string          `json:"id"`
	PatientID   string          `json:"patientId" validate:"required" label:"Patient"`
	DoctorID    string          `json:"doctorId" validate:"required" label:"Doctor"`
	StartDate   string          `json:"startDate" validate:"required,datetime=2006-01-02" label:"Start date"`
	EndDate     string          `json:"endDate" validate:"omitempty,datetime=2006-01-02" label:"End date"`
	Status      TreatmentStatus `json:"status" validate:"required,oneof=PENDING APPROVED IN_PROGRESS COMPLETED REJECTED" label:"Status"`
	Type        string          `json:"type" validate:"required" label:"Treatment type"`
	Description string          `json:"description"`
}

func (t Treatment) Kind() EntityKind      { return KindTreatment }
func (t Treatment) EntityID() string      { return t.ID }
func (t Treatment) DisplayName() string   { return firstPopulated(t.Type, t.Description) }
func (t Treatment) CurrentStatus() string { return string(t.Status) }
func (t Treatment) PatientRef() string    { return t.PatientID }
