package model

type Doctor struct {
	ID        string      `json:"id"`
	Name      string      `json:"name" validate:"required" label:"Doctor name"`
	Specialty string      `json:"specialty" validate:"required" label:"Specialty"`
	Contact   string      `json:"contact" validate:"required" label:"Contact information"`
	Status    StaffStatus `json:"status" validate:"required,oneof=ACTIVE ON_LEAVE INACTIVE" label:"Status"`
	Email     string      `json:"email" validate:"required,email" label:"Email"`
}

func (d Doctor) Kind() EntityKind      { return KindDoctor }
func (d Doctor) EntityID() string      { return d.ID }
func (d Doctor) DisplayName() string   { return d.Name }
func (d Doctor) CurrentStatus() string { return string(d.Status) }
func (d Doctor) PatientRef() string    { return "" }

type Nurse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name" validate:"required" label:"Nurse name"`
	Department string      `json:"department" validate:"required" label:"Department"`
	Contact    string      `json:"contact" validate:"required" label:"Contact information"`
	Status     StaffStatus `json:"status" validate:"required,oneof=ACTIVE ON_LEAVE INACTIVE" label:"Status"`
	Email      string      `json:"email" validate:"required,email" label:"Email"`
}

func (n Nurse) Kind() EntityKind      { return KindNurse }
func (n Nurse) EntityID() string      { return n.ID }
func (n Nurse) DisplayName() string   { return n.Name }
func (n Nurse) CurrentStatus() string { return string(n.Status) }
func (n Nurse) PatientRef() string    { return "" }
