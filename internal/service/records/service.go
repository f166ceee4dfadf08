package records

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository"
	"github.com/jwalitptl/clinic-records/internal/service/audit"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/event"
	"github.com/jwalitptl/clinic-records/pkg/logger"
	"github.com/jwalitptl/clinic-records/pkg/metrics"
	"github.com/jwalitptl/clinic-records/pkg/validator"
)

const dateLayout = "2006-01-02"

// RecordService is the record store contract used by screen controllers.
// Callers are expected to have consulted the access controller already.
type RecordService interface {
	Get(ctx context.Context, kind model.EntityKind, id string) (model.Entity, error)
	List(ctx context.Context, kind model.EntityKind, filter Filter) ([]model.Entity, error)
	Create(ctx context.Context, kind model.EntityKind, fields model.Fields, actor string) (model.Entity, error)
	Update(ctx context.Context, kind model.EntityKind, id string, fields model.Fields, actor string) (model.Entity, error)
}

type Service struct {
	repo      repository.RecordRepository
	auditor   *audit.Service
	validator validator.Validator
	events    event.Publisher
	extractor event.FieldExtractor
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

var _ RecordService = (*Service)(nil)

func NewService(repo repository.RecordRepository, auditor *audit.Service, v validator.Validator, events event.Publisher, log *logger.Logger, m *metrics.Metrics) *Service {
	if v == nil {
		v = validator.New()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		auditor:   auditor,
		validator: v,
		events:    events,
		extractor: &event.DefaultFieldExtractor{},
		logger:    log,
		metrics:   m,
	}
}

func (s *Service) Get(ctx context.Context, kind model.EntityKind, id string) (model.Entity, error) {
	e, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", kind, id, err)
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, kind model.EntityKind, filter Filter) ([]model.Entity, error) {
	all, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	return filter.Apply(all), nil
}

// Create assigns the next id of kind, applies defaults and the given fields,
// validates the result and stores it together with its audit entry.
func (s *Service) Create(ctx context.Context, kind model.EntityKind, fields model.Fields, actor string) (model.Entity, error) {
	spec, ok := model.Spec(kind)
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("entity kind %q", kind), nil)
	}
	if err := s.checkFields(spec, fields); err != nil {
		return nil, err
	}

	var (
		created model.Entity
		entry   model.AuditEntry
		logged  bool
	)
	err := s.repo.WithTx(ctx, func(tx repository.RecordTx) error {
		draft, err := model.ApplyFields(spec.New(), defaults(kind, tx.Now()))
		if err != nil {
			return apperrors.Internal(err)
		}
		if draft, err = model.ApplyFields(draft, fields); err != nil {
			return apperrors.BadRequest("invalid field values", err)
		}
		if err := s.validate(draft); err != nil {
			return err
		}

		id, err := tx.NextID(kind)
		if err != nil {
			return err
		}
		if created, err = model.ApplyFields(draft, model.Fields{"id": id}); err != nil {
			return apperrors.Internal(err)
		}
		if err := tx.Insert(created); err != nil {
			return err
		}
		entry, logged = s.auditor.Log(tx, actor, model.AuditActionCreate, kind, id, audit.CreateDetails(created))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", spec.Noun(), err)
	}

	s.committed(ctx, created, model.AuditActionCreate, actor, s.extractor.ExtractChanges(spec.New(), created, nil), entry, logged)
	return created, nil
}

// Update merges fields into the stored record. Fields not supplied keep
// their values.
func (s *Service) Update(ctx context.Context, kind model.EntityKind, id string, fields model.Fields, actor string) (model.Entity, error) {
	spec, ok := model.Spec(kind)
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("entity kind %q", kind), nil)
	}
	if err := s.checkFields(spec, fields); err != nil {
		return nil, err
	}

	var (
		before, after model.Entity
		changes       map[string]event.Change
		entry         model.AuditEntry
		logged        bool
	)
	err := s.repo.WithTx(ctx, func(tx repository.RecordTx) error {
		var err error
		if before, err = tx.Get(kind, id); err != nil {
			return err
		}
		if after, err = model.ApplyFields(before, fields); err != nil {
			return apperrors.BadRequest("invalid field values", err)
		}
		if err := s.validate(after); err != nil {
			return err
		}
		if err := tx.Replace(after); err != nil {
			return err
		}
		changes = s.extractor.ExtractChanges(before, after, nil)
		entry, logged = s.auditor.Log(tx, actor, model.AuditActionUpdate, kind, id, audit.UpdateDetails(after, changedFields(changes)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update %s %s: %w", spec.Noun(), id, err)
	}

	s.committed(ctx, after, model.AuditActionUpdate, actor, changes, entry, logged)
	return after, nil
}

// transition applies a workflow step to a single record.
func (s *Service) transition(ctx context.Context, kind model.EntityKind, id, actor string, action model.AuditAction, step func(model.Entity) (model.Entity, error)) (model.Entity, error) {
	var (
		before, after model.Entity
		entry         model.AuditEntry
		logged        bool
	)
	err := s.repo.WithTx(ctx, func(tx repository.RecordTx) error {
		var err error
		if before, err = tx.Get(kind, id); err != nil {
			return err
		}
		if after, err = step(before); err != nil {
			return err
		}
		if err := tx.Replace(after); err != nil {
			return err
		}
		entry, logged = s.auditor.Log(tx, actor, action, kind, id, audit.TransitionDetails(after, action))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.committed(ctx, after, action, actor, s.extractor.ExtractChanges(before, after, nil), entry, logged)
	return after, nil
}

func changedFields(changes map[string]event.Change) []string {
	names := make([]string, 0, len(changes))
	for name := range changes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Service) checkFields(spec model.KindSpec, fields model.Fields) error {
	problems := map[string]string{}
	for k := range fields {
		switch {
		case k == "id":
			problems[k] = "Record id is assigned by the store."
		case !model.HasField(spec.Kind, k):
			problems[k] = fmt.Sprintf("%s is not a %s field.", k, spec.Noun())
		}
	}
	if len(problems) > 0 {
		s.validationFailed(spec.Kind, problems)
		return apperrors.Validation(problems)
	}
	return nil
}

func (s *Service) validate(e model.Entity) error {
	err := s.validator.Validate(e)
	if err != nil && apperrors.IsValidation(err) {
		s.validationFailed(e.Kind(), apperrors.FieldsOf(err))
	}
	return err
}

func (s *Service) validationFailed(kind model.EntityKind, fields map[string]string) {
	if s.metrics != nil {
		s.metrics.ValidationFailures.WithLabelValues(string(kind)).Inc()
	}
	s.logger.Debug("Rejected record input", "kind", string(kind), "fields", fields)
}

// committed runs the post-commit hooks: audit bookkeeping, metrics, the
// change feed and logging.
func (s *Service) committed(ctx context.Context, e model.Entity, action model.AuditAction, actor string, changes map[string]event.Change, entry model.AuditEntry, logged bool) {
	if logged {
		s.auditor.Committed(entry)
	}
	if s.metrics != nil {
		s.metrics.Mutations.WithLabelValues(string(e.Kind()), string(action)).Inc()
	}
	if s.events != nil {
		s.events.Publish(ctx, event.Event{
			ID:         uuid.New(),
			Type:       event.Type(string(e.Kind()), string(action)),
			Resource:   string(e.Kind()),
			Operation:  string(action),
			EntityID:   e.EntityID(),
			Actor:      actor,
			Changes:    changes,
			OccurredAt: time.Now().UTC(),
		})
	}
	s.logger.Info("Record saved",
		"kind", string(e.Kind()),
		"id", e.EntityID(),
		"action", string(action),
		"user", actor,
	)
}

// defaults returns the initial field values of a new record of kind.
func defaults(kind model.EntityKind, now time.Time) model.Fields {
	switch kind {
	case model.KindPatient:
		return model.Fields{
			"status":       string(model.PatientStatusActive),
			"admittedDate": now.Format(dateLayout),
		}
	case model.KindAppointment:
		return model.Fields{"status": string(model.AppointmentStatusScheduled)}
	case model.KindTreatment:
		return model.Fields{"status": string(model.TreatmentStatusPending)}
	case model.KindDoctor, model.KindNurse:
		return model.Fields{"status": string(model.StaffStatusActive)}
	default:
		return model.Fields{}
	}
}
