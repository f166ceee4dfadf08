package memory

import (
	"time"

	"github.com/jwalitptl/clinic-records/internal/model"
)

// SeedEntities returns the demonstration records loaded at startup.
func SeedEntities() []model.Entity {
	return []model.Entity{
		model.Patient{ID: "pat1", Name: "Alice Smith", DOB: "1985-04-12", Contact: "555-0101", Status: model.PatientStatusActive, MedicalHistorySummary: "History of seasonal allergies, recent flu vaccine.", AdmittedDate: "2022-01-15"},
		model.Patient{ID: "pat2", Name: "Bob Johnson", DOB: "1970-11-23", Contact: "555-0102", Status: model.PatientStatusInactive, MedicalHistorySummary: "Hypertension, on daily medication.", AdmittedDate: "2021-03-01"},
		model.Patient{ID: "pat3", Name: "Charlie Brown", DOB: "1992-07-01", Contact: "555-0103", Status: model.PatientStatusPendingRegistration, MedicalHistorySummary: "No significant history, scheduled for initial check-up.", AdmittedDate: "2023-09-20"},
		model.Patient{ID: "pat4", Name: "Diana Miller", DOB: "1960-02-29", Contact: "555-0104", Status: model.PatientStatusActive, MedicalHistorySummary: "Type 2 Diabetes, regular endocrinology visits.", AdmittedDate: "2020-05-10"},
		model.Patient{ID: "pat5", Name: "Eve Davis", DOB: "2001-09-18", Contact: "555-0105", Status: model.PatientStatusDischarged, MedicalHistorySummary: "Appendectomy in 2023, fully recovered.", AdmittedDate: "2023-01-20"},
		model.Patient{ID: "pat6", Name: "Frank White", DOB: "1978-06-05", Contact: "555-0106", Status: model.PatientStatusActive, MedicalHistorySummary: "Annual check-up scheduled, no major concerns.", AdmittedDate: "2023-04-01"},
		model.Patient{ID: "pat7", Name: "Grace Taylor", DOB: "1995-12-30", Contact: "555-0107", Status: model.PatientStatusActive, MedicalHistorySummary: "Asthma, uses inhaler as needed.", AdmittedDate: "2022-08-01"},

		model.Doctor{ID: "doc1", Name: "Dr. Emily Chen", Specialty: "Cardiology", Contact: "555-0201", Status: model.StaffStatusActive, Email: "emily.chen@hospital.com"},
		model.Doctor{ID: "doc2", Name: "Dr. John Adams", Specialty: "Pediatrics", Contact: "555-0202", Status: model.StaffStatusActive, Email: "john.adams@hospital.com"},
		model.Doctor{ID: "doc3", Name: "Dr. Sarah Lee", Specialty: "General Practice", Contact: "555-0203", Status: model.StaffStatusOnLeave, Email: "sarah.lee@hospital.com"},
		model.Doctor{ID: "doc4", Name: "Dr. Michael Green", Specialty: "Orthopedics", Contact: "555-0204", Status: model.StaffStatusActive, Email: "michael.green@hospital.com"},
		model.Doctor{ID: "doc5", Name: "Dr. Laura King", Specialty: "Neurology", Contact: "555-0205", Status: model.StaffStatusInactive, Email: "laura.king@hospital.com"},

		model.Nurse{ID: "nur1", Name: "Nurse Jessica", Department: "ER", Contact: "555-0301", Status: model.StaffStatusActive, Email: "jessica.r@hospital.com"},
		model.Nurse{ID: "nur2", Name: "Nurse David", Department: "Pediatrics", Contact: "555-0302", Status: model.StaffStatusOnLeave, Email: "david.s@hospital.com"},
		model.Nurse{ID: "nur3", Name: "Nurse Maria", Department: "ICU", Contact: "555-0303", Status: model.StaffStatusActive, Email: "maria.g@hospital.com"},

		model.Appointment{ID: "app1", PatientID: "pat1", DoctorID: "doc1", Date: "2024-03-25", Time: "10:00 AM", Status: model.AppointmentStatusConfirmed, Type: "Follow-up", Notes: "Patient to bring latest blood test results."},
		model.Appointment{ID: "app2", PatientID: "pat2", DoctorID: "doc2", Date: "2024-03-26", Time: "02:30 PM", Status: model.AppointmentStatusScheduled, Type: "Check-up", Notes: "First visit for new patient. Childhood vaccination record needed."},
		model.Appointment{ID: "app3", PatientID: "pat3", DoctorID: "doc3", Date: "2024-03-27", Time: "09:00 AM", Status: model.AppointmentStatusPendingReschedule, Type: "Consultation", Notes: "Doctor on leave, needs reschedule."},
		model.Appointment{ID: "app4", PatientID: "pat4", DoctorID: "doc1", Date: "2024-03-28", Time: "11:00 AM", Status: model.AppointmentStatusCompleted, Type: "Review", Notes: "Reviewed diabetes management plan. Patient is stable."},
		model.Appointment{ID: "app5", PatientID: "pat5", DoctorID: "doc4", Date: "2024-03-29", Time: "01:00 PM", Status: model.AppointmentStatusCancelled, Type: "Physiotherapy", Notes: "Patient fully recovered, appointment cancelled by patient."},
		model.Appointment{ID: "app6", PatientID: "pat1", DoctorID: "doc1", Date: "2024-04-01", Time: "03:00 PM", Status: model.AppointmentStatusScheduled, Type: "Annual Exam", Notes: "Standard annual physical."},
		model.Appointment{ID: "app7", PatientID: "pat7", DoctorID: "doc2", Date: "2024-04-02", Time: "09:30 AM", Status: model.AppointmentStatusConfirmed, Type: "Asthma Review", Notes: "Asthma control check and inhaler technique."},

		model.Treatment{ID: "trt1", PatientID: "pat4", DoctorID: "doc1", StartDate: "2023-01-01", EndDate: "2024-12-31", Status: model.TreatmentStatusInProgress, Type: "Diabetes Management", Description: "Daily insulin, diet, exercise regimen."},
		model.Treatment{ID: "trt2", PatientID: "pat1", DoctorID: "doc1", StartDate: "2024-03-20", EndDate: "2024-03-25", Status: model.TreatmentStatusCompleted, Type: "Flu Treatment", Description: "Antivirals, rest, hydration."},
		model.Treatment{ID: "trt3", PatientID: "pat3", DoctorID: "doc3", StartDate: "2024-03-27", EndDate: "2024-04-27", Status: model.TreatmentStatusPending, Type: "Initial Wellness Plan", Description: "Personalized wellness recommendations based on initial check-up."},
		model.Treatment{ID: "trt4", PatientID: "pat7", DoctorID: "doc2", StartDate: "2023-08-01", EndDate: "2025-08-01", Status: model.TreatmentStatusApproved, Type: "Asthma Maintenance", Description: "Prescribed daily inhaled corticosteroids and rescue inhaler."},

		model.MedicalRecord{ID: "med1", PatientID: "pat1", Date: "2024-03-20", Type: "Visit Note", Details: "Patient presented with flu-like symptoms. Prescribed Tamiflu.", RecordedBy: "doc1"},
		model.MedicalRecord{ID: "med2", PatientID: "pat4", Date: "2024-03-15", Type: "Lab Results", Details: "A1C: 7.2%, Glucose: 140 mg/dL. Results stable.", RecordedBy: "nur1"},
		model.MedicalRecord{ID: "med3", PatientID: "pat2", Date: "2023-10-01", Type: "Consultation", Details: "Referred to a cardiologist for blood pressure management.", RecordedBy: "doc2"},
		model.MedicalRecord{ID: "med4", PatientID: "pat7", Date: "2024-02-01", Type: "Vitals", Details: "BP: 120/80, HR: 72, Temp: 98.6F, Oxygen Sat: 99%.", RecordedBy: "nur3"},
		model.MedicalRecord{ID: "med5", PatientID: "pat1", Date: "2024-03-25", Type: "Visit Note", Details: "Follow-up for flu. Symptoms resolved. Advised rest.", RecordedBy: "doc1"},
	}
}

// SeedAudit returns the historical audit entries that accompany SeedEntities.
func SeedAudit() []model.AuditEntry {
	at := func(s string) time.Time {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			panic(err)
		}
		return t
	}
	return []model.AuditEntry{
		{ID: "log1", Timestamp: at("2024-03-24T10:30:00Z"), Actor: "AdminUser", Action: model.AuditActionCreate, EntityKind: model.KindPatient, EntityID: "pat8", Details: "Created new patient record for Jane Doe"},
		{ID: "log2", Timestamp: at("2024-03-24T11:00:00Z"), Actor: "DoctorUser", Action: model.AuditActionUpdate, EntityKind: model.KindAppointment, EntityID: "app1", Details: "Updated appointment status to CONFIRMED for pat1"},
		{ID: "log3", Timestamp: at("2024-03-24T11:15:00Z"), Actor: "ReceptionistUser", Action: model.AuditActionDelete, EntityKind: model.KindAppointment, EntityID: "app5", Details: "Cancelled appointment for pat5"},
		{ID: "log4", Timestamp: at("2024-03-24T12:00:00Z"), Actor: "AdminUser", Action: model.AuditActionApprove, EntityKind: model.KindTreatment, EntityID: "trt4", Details: "Approved Asthma Maintenance plan for pat7"},
		{ID: "log5", Timestamp: at("2024-03-24T13:00:00Z"), Actor: "NurseUser", Action: model.AuditActionUpdate, EntityKind: model.KindMedicalRecord, EntityID: "med4", Details: "Updated vitals for pat7"},
	}
}

// NewSeededStore returns a store preloaded with the demonstration data.
func NewSeededStore(opts ...Option) (*Store, error) {
	s := NewStore(opts...)
	if err := s.Load(SeedEntities(), SeedAudit()); err != nil {
		return nil, err
	}
	return s, nil
}
