package model

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// EntityKind identifies one of the record collections held by the store.
type EntityKind string

const (
	KindPatient       EntityKind = "PATIENT"
	KindAppointment   EntityKind = "APPOINTMENT"
	KindDoctor        EntityKind = "DOCTOR"
	KindNurse         EntityKind = "NURSE"
	KindTreatment     EntityKind = "TREATMENT"
	KindMedicalRecord EntityKind = "MEDICAL_RECORD"
)

// Entity is the variant type shared by every record kind. Implementations are
// plain value types so copies handed to callers never alias store state.
type Entity interface {
	Kind() EntityKind
	EntityID() string
	// DisplayName is the first populated of name, type and description.
	DisplayName() string
	// CurrentStatus is empty for kinds without a status.
	CurrentStatus() string
	// PatientRef is the referenced patient id, or the record's own id for patients.
	PatientRef() string
}

// Fields is a flat field-name to value mapping keyed by json tag names.
type Fields map[string]string

// Keys returns the field names in sorted order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// KindSpec describes a record kind: how ids are minted, how it is named and
// which statuses it may carry.
type KindSpec struct {
	Kind     EntityKind
	Prefix   string
	Label    string
	Statuses []StatusOption
	zero     Entity
}

// Noun returns the lower-case label used in audit details.
func (s KindSpec) Noun() string {
	return strings.ToLower(s.Label)
}

// New returns an empty record of the kind.
func (s KindSpec) New() Entity {
	return s.zero
}

// HasStatus reports whether the kind carries a status field.
func (s KindSpec) HasStatus() bool {
	return len(s.Statuses) > 0
}

var kindOrder = []EntityKind{
	KindPatient,
	KindAppointment,
	KindDoctor,
	KindNurse,
	KindTreatment,
	KindMedicalRecord,
}

var kindSpecs = map[EntityKind]KindSpec{
	KindPatient:       {Kind: KindPatient, Prefix: "pat", Label: "Patient", Statuses: patientStatuses, zero: Patient{}},
	KindAppointment:   {Kind: KindAppointment, Prefix: "app", Label: "Appointment", Statuses: appointmentStatuses, zero: Appointment{}},
	KindDoctor:        {Kind: KindDoctor, Prefix: "doc", Label: "Doctor", Statuses: staffStatuses, zero: Doctor{}},
	KindNurse:         {Kind: KindNurse, Prefix: "nur", Label: "Nurse", Statuses: staffStatuses, zero: Nurse{}},
	KindTreatment:     {Kind: KindTreatment, Prefix: "trt", Label: "Treatment", Statuses: treatmentStatuses, zero: Treatment{}},
	KindMedicalRecord: {Kind: KindMedicalRecord, Prefix: "med", Label: "Medical Record", zero: MedicalRecord{}},
}

// Kinds returns every entity kind in display order.
func Kinds() []EntityKind {
	out := make([]EntityKind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

// Spec returns the descriptor for kind.
func Spec(kind EntityKind) (KindSpec, bool) {
	s, ok := kindSpecs[kind]
	return s, ok
}

// ParseEntityKind accepts either the canonical identifier ("MEDICAL_RECORD") or
// a case-insensitive label ("medical record", "patient").
func ParseEntityKind(s string) (EntityKind, bool) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "_")
	norm = strings.ReplaceAll(norm, "-", "_")
	if _, ok := kindSpecs[EntityKind(norm)]; ok {
		return EntityKind(norm), true
	}
	return "", false
}

// FieldNames lists the json field names of kind, in declaration order.
func FieldNames(kind EntityKind) []string {
	spec, ok := kindSpecs[kind]
	if !ok {
		return nil
	}
	t := reflect.TypeOf(spec.zero)
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		names = append(names, jsonName(t.Field(i)))
	}
	return names
}

// HasField reports whether kind declares a field with the given json name.
func HasField(kind EntityKind, name string) bool {
	for _, n := range FieldNames(kind) {
		if n == name {
			return true
		}
	}
	return false
}

// FieldsOf flattens e into its json-named string fields.
func FieldsOf(e Entity) Fields {
	raw := map[string]interface{}{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &raw,
	})
	if err != nil {
		return Fields{}
	}
	if err := dec.Decode(e); err != nil {
		return Fields{}
	}
	out := make(Fields, len(raw))
	for k, v := range raw {
		out[k] = fmt.Sprint(v)
	}
	return out
}

// ApplyFields returns a copy of e with the given fields replaced. Fields not
// present in the map keep their prior values.
func ApplyFields(e Entity, fields Fields) (Entity, error) {
	target := reflect.New(reflect.TypeOf(e))
	target.Elem().Set(reflect.ValueOf(e))

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      target.Interface(),
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(map[string]string(fields)); err != nil {
		return nil, fmt.Errorf("failed to apply fields: %w", err)
	}
	return target.Elem().Interface().(Entity), nil
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func firstPopulated(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
