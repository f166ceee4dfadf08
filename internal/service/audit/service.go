package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository"
	"github.com/jwalitptl/clinic-records/pkg/logger"
	"github.com/jwalitptl/clinic-records/pkg/metrics"
)

// DefaultAuditedKinds are the kinds whose mutations are audited unless
// configured otherwise.
var DefaultAuditedKinds = []model.EntityKind{
	model.KindPatient,
	model.KindAppointment,
	model.KindTreatment,
}

type Service struct {
	repo    repository.AuditRepository
	audited map[model.EntityKind]bool
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewService(repo repository.AuditRepository, audited []model.EntityKind, log *logger.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = logger.Nop()
	}
	set := make(map[model.EntityKind]bool, len(audited))
	for _, k := range audited {
		set[k] = true
	}
	return &Service{repo: repo, audited: set, logger: log, metrics: m}
}

// ParseKinds converts configured kind names, rejecting unknown ones.
func ParseKinds(names []string) ([]model.EntityKind, error) {
	out := make([]model.EntityKind, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		k, ok := model.ParseEntityKind(n)
		if !ok {
			return nil, fmt.Errorf("unknown audited kind %q", n)
		}
		out = append(out, k)
	}
	return out, nil
}

// Audited reports whether mutations of kind produce audit entries.
func (s *Service) Audited(kind model.EntityKind) bool {
	return s.audited[kind]
}

// Log stages an audit entry inside tx when kind is audited. The entry only
// becomes visible if tx commits.
func (s *Service) Log(tx repository.RecordTx, actor string, action model.AuditAction, kind model.EntityKind, entityID, details string) (model.AuditEntry, bool) {
	if !s.Audited(kind) {
		return model.AuditEntry{}, false
	}
	entry := tx.AppendAudit(model.AuditEntry{
		Actor:      actor,
		Action:     action,
		EntityKind: kind,
		EntityID:   entityID,
		Details:    details,
	})
	return entry, true
}

// Committed records a staged entry after its transaction commits.
func (s *Service) Committed(entry model.AuditEntry) {
	if s.metrics != nil {
		s.metrics.AuditEntries.WithLabelValues(string(entry.Action)).Inc()
	}
	s.logger.Debug("Audit entry appended",
		"audit_id", entry.ID,
		"action", string(entry.Action),
		"entity", string(entry.EntityKind),
		"entity_id", entry.EntityID,
		"user", entry.Actor,
	)
}

// Query returns matching entries, oldest first.
func (s *Service) Query(ctx context.Context, filter model.AuditFilter) ([]model.AuditEntry, error) {
	entries, err := s.repo.ListAudit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	out := make([]model.AuditEntry, 0, len(entries))
	for _, e := range entries {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Recent returns up to n matching entries, newest first.
func (s *Service) Recent(ctx context.Context, filter model.AuditFilter, n int) ([]model.AuditEntry, error) {
	entries, err := s.Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]model.AuditEntry, 0, n)
	for i := len(entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}
