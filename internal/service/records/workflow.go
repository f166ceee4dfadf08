package records

import (
	"context"
	"fmt"

	"github.com/jwalitptl/clinic-records/internal/model"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

// Cancel moves a scheduled or confirmed appointment to CANCELLED. Records are
// never removed; the cancellation is audited as a DELETE.
func (s *Service) Cancel(ctx context.Context, id, actor string) (model.Appointment, error) {
	return s.moveAppointment(ctx, id, actor, model.AppointmentStatusCancelled, model.AuditActionDelete)
}

func (s *Service) Confirm(ctx context.Context, id, actor string) (model.Appointment, error) {
	return s.moveAppointment(ctx, id, actor, model.AppointmentStatusConfirmed, model.AuditActionUpdate)
}

// Reschedule flags an appointment as needing a new slot.
func (s *Service) Reschedule(ctx context.Context, id, actor string) (model.Appointment, error) {
	return s.moveAppointment(ctx, id, actor, model.AppointmentStatusPendingReschedule, model.AuditActionUpdate)
}

func (s *Service) Complete(ctx context.Context, id, actor string) (model.Appointment, error) {
	return s.moveAppointment(ctx, id, actor, model.AppointmentStatusCompleted, model.AuditActionUpdate)
}

// Approve moves a pending treatment plan to APPROVED.
func (s *Service) Approve(ctx context.Context, id, actor string) (model.Treatment, error) {
	return s.decideTreatment(ctx, id, actor, model.TreatmentStatusApproved, model.AuditActionApprove)
}

// Reject moves a pending treatment plan to REJECTED.
func (s *Service) Reject(ctx context.Context, id, actor string) (model.Treatment, error) {
	return s.decideTreatment(ctx, id, actor, model.TreatmentStatusRejected, model.AuditActionUpdate)
}

func (s *Service) moveAppointment(ctx context.Context, id, actor string, to model.AppointmentStatus, action model.AuditAction) (model.Appointment, error) {
	e, err := s.transition(ctx, model.KindAppointment, id, actor, action, func(cur model.Entity) (model.Entity, error) {
		appt := cur.(model.Appointment)
		if !appt.CanTransition(to) {
			return nil, apperrors.BadRequest(fmt.Sprintf("appointment %s cannot move from %s to %s", id, appt.Status, to), nil)
		}
		appt.Status = to
		return appt, nil
	})
	if err != nil {
		return model.Appointment{}, fmt.Errorf("failed to set appointment %s to %s: %w", id, to, err)
	}
	return e.(model.Appointment), nil
}

func (s *Service) decideTreatment(ctx context.Context, id, actor string, to model.TreatmentStatus, action model.AuditAction) (model.Treatment, error) {
	e, err := s.transition(ctx, model.KindTreatment, id, actor, action, func(cur model.Entity) (model.Entity, error) {
		t := cur.(model.Treatment)
		if t.Status != model.TreatmentStatusPending {
			return nil, apperrors.BadRequest(fmt.Sprintf("treatment %s is %s, not pending approval", id, t.Status), nil)
		}
		t.Status = to
		return t, nil
	})
	if err != nil {
		return model.Treatment{}, fmt.Errorf("failed to set treatment %s to %s: %w", id, to, err)
	}
	return e.(model.Treatment), nil
}
