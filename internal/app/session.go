package app

import (
	"context"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/service/dashboard"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

// Login opens a session for the named role and lands on the dashboard.
func (a *App) Login(ctx context.Context, roleName, displayName string) (model.Session, model.NavigationState, error) {
	role, ok := model.ParseRole(roleName)
	if !ok {
		return model.Session{}, a.router.State(), apperrors.BadRequest("unknown role "+roleName, nil)
	}
	sess, err := a.sessions.Start(role, displayName)
	if err != nil {
		return model.Session{}, a.router.State(), err
	}
	return sess, a.router.Navigate(ctx, model.ScreenDashboard, nil), nil
}

// Logout ends the session and returns to the login screen. Records and the
// audit trail are kept.
func (a *App) Logout(ctx context.Context) model.NavigationState {
	a.sessions.End()
	return a.router.Navigate(ctx, model.ScreenLogin, nil)
}

// Session returns the live session, if any.
func (a *App) Session() (model.Session, bool) {
	return a.sessions.Current()
}

// State returns the current navigation state.
func (a *App) State() model.NavigationState {
	return a.router.State()
}

// Navigate opens screen after checking the session may see it. A refused
// navigation leaves the state unchanged.
func (a *App) Navigate(ctx context.Context, screen model.ScreenID, params model.Params) (model.NavigationState, error) {
	if screen == model.ScreenLogin {
		return a.Logout(ctx), nil
	}
	sess, err := a.requireSession(ctx)
	if err != nil {
		return a.router.State(), err
	}
	if !screen.Valid() {
		return a.router.State(), apperrors.NotFound("screen "+string(screen), nil)
	}
	if screen == model.ScreenMyProfile && params.ID() == "" {
		params = params.Clone()
		params["id"] = sess.PatientID
	}
	if err := a.authorizeScreen(ctx, sess, screen, params); err != nil {
		return a.router.State(), err
	}
	return a.router.Navigate(ctx, screen, params), nil
}

// Back returns to the previous breadcrumb.
func (a *App) Back(ctx context.Context) (model.NavigationState, error) {
	if _, err := a.requireSession(ctx); err != nil {
		return a.router.State(), err
	}
	return a.router.Back(ctx), nil
}

// Menu lists the screens the signed-in role may open.
func (a *App) Menu(ctx context.Context) ([]model.ScreenID, error) {
	sess, err := a.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	return a.access.AccessibleScreens(sess.Role), nil
}

// CanPerform evaluates the permission matrix for the signed-in role. It is
// false when nobody is signed in.
func (a *App) CanPerform(capability model.Capability, target string) bool {
	sess, ok := a.sessions.Current()
	if !ok {
		return false
	}
	return a.access.CanPerform(sess.Role, capability, target)
}

// Dashboard returns the summary figures, scoped to the patient for the
// Patient role.
func (a *App) Dashboard(ctx context.Context) (*dashboard.Stats, error) {
	sess, err := a.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	return a.dashboard.Stats(ctx, sess.PatientID)
}

// AuditLog returns audit entries, oldest first. Requires view_audit.
func (a *App) AuditLog(ctx context.Context, filter model.AuditFilter) ([]model.AuditEntry, error) {
	sess, err := a.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.access.Authorize(sess.Role, model.CapabilityViewAudit, ""); err != nil {
		return nil, err
	}
	return a.auditor.Query(ctx, filter)
}

// requireSession refreshes the idle deadline. An expired session is treated
// as a logout.
func (a *App) requireSession(ctx context.Context) (model.Session, error) {
	sess, ok := a.sessions.Touch()
	if !ok {
		a.router.Navigate(ctx, model.ScreenLogin, nil)
		return model.Session{}, apperrors.Unauthorized(nil)
	}
	return sess, nil
}

func (a *App) authorizeScreen(ctx context.Context, sess model.Session, screen model.ScreenID, params model.Params) error {
	if screen.IsRoot() {
		return nil
	}
	if a.access.CanPerform(sess.Role, model.CapabilityView, string(screen)) {
		if kind, ok := screen.EntityKind(); ok && sess.IsPatient() && params.ID() != "" {
			return a.authorizePortalRecord(ctx, sess, kind, params.ID())
		}
		return nil
	}

	kind, ok := screen.EntityKind()
	if !ok {
		return a.access.Authorize(sess.Role, model.CapabilityView, string(screen))
	}
	id := params.ID()

	if screen.IsForm() {
		if id != "" {
			return a.authorizeEdit(ctx, sess, kind, id, nil)
		}
		return a.authorizeCreate(sess, kind)
	}

	if a.access.CanPerform(sess.Role, model.CapabilityView, string(model.ListScreenFor(kind))) {
		return nil
	}
	if sess.IsPatient() && id != "" {
		return a.authorizePortalRecord(ctx, sess, kind, id)
	}
	return a.access.Authorize(sess.Role, model.CapabilityView, string(screen))
}
