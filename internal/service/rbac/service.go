package rbac

import (
	"fmt"

	"github.com/jwalitptl/clinic-records/internal/model"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/logger"
	"github.com/jwalitptl/clinic-records/pkg/metrics"
)

// Service is the access controller consulted by screen controllers before
// they call into the record store.
type Service struct {
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewService(log *logger.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{logger: log, metrics: m}
}

func (s *Service) CanPerform(role model.Role, capability model.Capability, target string) bool {
	return CanPerform(role, capability, target)
}

// Authorize is CanPerform returning a forbidden error on denial.
func (s *Service) Authorize(role model.Role, capability model.Capability, target string) error {
	if CanPerform(role, capability, target) {
		return nil
	}
	if s.metrics != nil {
		s.metrics.AccessDenied.WithLabelValues(string(capability)).Inc()
	}
	s.logger.Warn("Access denied", "role", string(role), "capability", string(capability), "target", target)
	if target == "" {
		return apperrors.Forbidden(fmt.Sprintf("%s may not %s", role, capability))
	}
	return apperrors.Forbidden(fmt.Sprintf("%s may not %s %s", role, capability, target))
}

// AccessibleScreens lists the screens role may open, in menu order.
func (s *Service) AccessibleScreens(role model.Role) []model.ScreenID {
	perms, ok := RolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]model.ScreenID, len(perms.CanView))
	copy(out, perms.CanView)
	return out
}

// Permissions returns the permission set of role and whether it has one.
func (s *Service) Permissions(role model.Role) (PermissionSet, bool) {
	perms, ok := RolePermissions[role]
	return perms, ok
}
