package app

import (
	"context"
	"fmt"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/service/rbac"
	"github.com/jwalitptl/clinic-records/internal/service/records"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

// portalScreens maps the kinds a patient may read to the portal screen that
// exposes them.
var portalScreens = map[model.EntityKind]model.ScreenID{
	model.KindPatient:       model.ScreenMyProfile,
	model.KindAppointment:   model.ScreenMyAppointments,
	model.KindMedicalRecord: model.ScreenMyMedicalRecords,
}

// profileFields are the patient fields a patient may change on their own
// profile.
var profileFields = map[string]bool{
	"name":    true,
	"dob":     true,
	"contact": true,
}

// List returns the records of kind visible to the session.
func (a *App) List(ctx context.Context, kind model.EntityKind, filter records.Filter) ([]model.Entity, error) {
	sess, err := a.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := model.Spec(kind); !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("entity kind %q", kind), nil)
	}
	list := model.ListScreenFor(kind)
	if !a.access.CanPerform(sess.Role, model.CapabilityView, string(list)) {
		portal, ok := portalScreens[kind]
		if !sess.IsPatient() || !ok || !a.access.CanPerform(sess.Role, model.CapabilityView, string(portal)) {
			return nil, a.access.Authorize(sess.Role, model.CapabilityView, string(list))
		}
		filter.PatientID = sess.PatientID
	}
	return a.records.List(ctx, kind, filter)
}

// Get returns one record visible to the session.
func (a *App) Get(ctx context.Context, kind model.EntityKind, id string) (model.Entity, error) {
	sess, err := a.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := model.Spec(kind); !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("entity kind %q", kind), nil)
	}
	if !a.access.CanPerform(sess.Role, model.CapabilityView, string(model.ListScreenFor(kind))) {
		if err := a.authorizePortalRecord(ctx, sess, kind, id); err != nil {
			return nil, err
		}
	}
	return a.records.Get(ctx, kind, id)
}

// Create stores a new record as the signed-in user. Patients may only
// request appointments for themselves.
func (a *App) Create(ctx context.Context, kind model.EntityKind, fields model.Fields) (model.Entity, error) {
	sess, err := a.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.authorizeCreate(sess, kind); err != nil {
		return nil, err
	}
	if sess.IsPatient() {
		fields = clone(fields)
		fields["patientId"] = sess.PatientID
		delete(fields, "status")
	}
	return a.records.Create(ctx, kind, fields, sess.DisplayName)
}

// Update merges fields into a record as the signed-in user.
func (a *App) Update(ctx context.Context, kind model.EntityKind, id string, fields model.Fields) (model.Entity, error) {
	sess, err := a.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.authorizeEdit(ctx, sess, kind, id, fields); err != nil {
		return nil, err
	}
	return a.records.Update(ctx, kind, id, fields, sess.DisplayName)
}

func (a *App) Cancel(ctx context.Context, id string) (model.Appointment, error) {
	sess, err := a.authorized(ctx, model.CapabilityDelete, string(model.KindAppointment))
	if err != nil {
		return model.Appointment{}, err
	}
	return a.records.Cancel(ctx, id, sess.DisplayName)
}

func (a *App) Confirm(ctx context.Context, id string) (model.Appointment, error) {
	sess, err := a.authorized(ctx, model.CapabilityEdit, string(model.KindAppointment))
	if err != nil {
		return model.Appointment{}, err
	}
	return a.records.Confirm(ctx, id, sess.DisplayName)
}

func (a *App) Reschedule(ctx context.Context, id string) (model.Appointment, error) {
	sess, err := a.authorized(ctx, model.CapabilityEdit, string(model.KindAppointment))
	if err != nil {
		return model.Appointment{}, err
	}
	return a.records.Reschedule(ctx, id, sess.DisplayName)
}

func (a *App) Complete(ctx context.Context, id string) (model.Appointment, error) {
	sess, err := a.authorized(ctx, model.CapabilityEdit, string(model.KindAppointment))
	if err != nil {
		return model.Appointment{}, err
	}
	return a.records.Complete(ctx, id, sess.DisplayName)
}

func (a *App) Approve(ctx context.Context, id string) (model.Treatment, error) {
	sess, err := a.authorized(ctx, model.CapabilityApprove, string(model.KindTreatment))
	if err != nil {
		return model.Treatment{}, err
	}
	return a.records.Approve(ctx, id, sess.DisplayName)
}

func (a *App) Reject(ctx context.Context, id string) (model.Treatment, error) {
	sess, err := a.authorized(ctx, model.CapabilityApprove, string(model.KindTreatment))
	if err != nil {
		return model.Treatment{}, err
	}
	return a.records.Reject(ctx, id, sess.DisplayName)
}

func (a *App) authorized(ctx context.Context, capability model.Capability, target string) (model.Session, error) {
	sess, err := a.requireSession(ctx)
	if err != nil {
		return model.Session{}, err
	}
	if err := a.access.Authorize(sess.Role, capability, target); err != nil {
		return model.Session{}, err
	}
	return sess, nil
}

func (a *App) authorizeCreate(sess model.Session, kind model.EntityKind) error {
	if a.access.CanPerform(sess.Role, model.CapabilityCreate, string(kind)) {
		return nil
	}
	if sess.IsPatient() && kind == model.KindAppointment &&
		a.access.CanPerform(sess.Role, model.CapabilityCreate, string(rbac.ResourceAppointmentRequest)) {
		return nil
	}
	return a.access.Authorize(sess.Role, model.CapabilityCreate, string(kind))
}

// authorizeEdit checks an edit of kind/id. A nil fields map checks opening
// the edit form only.
func (a *App) authorizeEdit(ctx context.Context, sess model.Session, kind model.EntityKind, id string, fields model.Fields) error {
	if a.access.CanPerform(sess.Role, model.CapabilityEdit, string(kind)) {
		return nil
	}
	ownProfile := sess.IsPatient() && kind == model.KindPatient && id == sess.PatientID &&
		a.access.CanPerform(sess.Role, model.CapabilityEdit, string(rbac.ResourceMyProfile))
	if !ownProfile {
		return a.access.Authorize(sess.Role, model.CapabilityEdit, string(kind))
	}
	for k := range fields {
		if !profileFields[k] {
			return apperrors.Forbidden(fmt.Sprintf("%s may not edit profile field %s", sess.Role, k))
		}
	}
	return nil
}

// authorizePortalRecord lets a patient read records that reference them.
func (a *App) authorizePortalRecord(ctx context.Context, sess model.Session, kind model.EntityKind, id string) error {
	portal, ok := portalScreens[kind]
	if !sess.IsPatient() || !ok || !a.access.CanPerform(sess.Role, model.CapabilityView, string(portal)) {
		return a.access.Authorize(sess.Role, model.CapabilityView, string(model.ListScreenFor(kind)))
	}
	e, err := a.records.Get(ctx, kind, id)
	if err != nil || e.PatientRef() != sess.PatientID {
		return apperrors.Forbidden(fmt.Sprintf("%s %s is not part of this patient's records", kind, id))
	}
	return nil
}

func clone(fields model.Fields) model.Fields {
	out := make(model.Fields, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	return out
}
