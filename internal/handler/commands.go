package handler

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/common/expfmt"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/service/records"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

func commandTable() map[string]command {
	cmds := map[string]command{
		"help":       {"help", "list commands", cmdHelp},
		"login":      {`login <role> [name]`, "sign in under a role", cmdLogin},
		"logout":     {"logout", "sign out", cmdLogout},
		"nav":        {"nav <SCREEN> [id] [key=value...]", "open a screen", cmdNav},
		"back":       {"back", "return to the previous breadcrumb", cmdBack},
		"where":      {"where", "show the current screen and breadcrumbs", cmdWhere},
		"menu":       {"menu", "list the screens this role may open", cmdMenu},
		"list":       {"list <kind> [status=S] [search=text]", "list records", cmdList},
		"show":       {"show <kind> <id>", "show one record", cmdShow},
		"create":     {"create <kind> key=value...", "create a record", cmdCreate},
		"update":     {"update <kind> <id> key=value...", "change fields of a record", cmdUpdate},
		"cancel":     {"cancel <appointment id>", "cancel an appointment", appointmentCmd("cancelled")},
		"confirm":    {"confirm <appointment id>", "confirm an appointment", appointmentCmd("confirmed")},
		"reschedule": {"reschedule <appointment id>", "flag an appointment for rescheduling", appointmentCmd("flagged for rescheduling")},
		"complete":   {"complete <appointment id>", "mark an appointment completed", appointmentCmd("completed")},
		"approve":    {"approve <treatment id>", "approve a pending treatment plan", treatmentCmd("approved")},
		"reject":     {"reject <treatment id>", "reject a pending treatment plan", treatmentCmd("rejected")},
		"audit":      {"audit [entity id]", "show the audit trail", cmdAudit},
		"dashboard":  {"dashboard", "show summary figures", cmdDashboard},
		"can":        {"can <capability> [target]", "check a permission for this role", cmdCan},
		"metrics":    {"metrics", "print metrics in text exposition format", cmdMetrics},
		"quit":       {"quit", "leave the shell", cmdQuit},
	}
	cmds["exit"] = cmds["quit"]
	return cmds
}

func cmdHelp(_ context.Context, s *Shell, _ []string) error {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		if name == "exit" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	w := newTable(s.out)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%s\n", s.commands[name].usage, s.commands[name].help)
	}
	return w.Flush()
}

func cmdQuit(context.Context, *Shell, []string) error {
	return ErrQuit
}

func cmdLogin(ctx context.Context, s *Shell, args []string) error {
	if len(args) == 0 {
		return usageError(s, "login")
	}
	name := ""
	if len(args) > 1 {
		name = strings.Join(args[1:], " ")
	}
	sess, state, err := s.app.Login(ctx, args[0], name)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Signed in as %s (%s)\n", sess.DisplayName, sess.Role)
	printState(s.out, state)
	return nil
}

func cmdLogout(ctx context.Context, s *Shell, _ []string) error {
	printState(s.out, s.app.Logout(ctx))
	return nil
}

func cmdNav(ctx context.Context, s *Shell, args []string) error {
	if len(args) == 0 {
		return usageError(s, "nav")
	}
	screen, ok := model.ParseScreen(args[0])
	if !ok {
		return apperrors.NotFound("screen "+args[0], nil)
	}
	params, positional := splitPairs(args[1:])
	if len(positional) > 0 {
		params["id"] = positional[0]
	}
	state, err := s.app.Navigate(ctx, screen, model.Params(params))
	if err != nil {
		return err
	}
	printState(s.out, state)
	return nil
}

func cmdBack(ctx context.Context, s *Shell, _ []string) error {
	state, err := s.app.Back(ctx)
	if err != nil {
		return err
	}
	printState(s.out, state)
	return nil
}

func cmdWhere(_ context.Context, s *Shell, _ []string) error {
	printState(s.out, s.app.State())
	return nil
}

func cmdMenu(ctx context.Context, s *Shell, _ []string) error {
	screens, err := s.app.Menu(ctx)
	if err != nil {
		return err
	}
	for _, sc := range screens {
		fmt.Fprintf(s.out, "  %s\n", sc)
	}
	return nil
}

func cmdList(ctx context.Context, s *Shell, args []string) error {
	if len(args) == 0 {
		return usageError(s, "list")
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	opts, _ := splitPairs(args[1:])
	filter := records.Filter{
		Status: strings.ToUpper(opts["status"]),
		Search: opts["search"],
	}
	entities, err := s.app.List(ctx, kind, filter)
	if err != nil {
		return err
	}
	return printList(s.out, kind, entities)
}

func cmdShow(ctx context.Context, s *Shell, args []string) error {
	if len(args) < 2 {
		return usageError(s, "show")
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	e, err := s.app.Get(ctx, kind, args[1])
	if err != nil {
		return err
	}
	return printRecord(s.out, e)
}

func cmdCreate(ctx context.Context, s *Shell, args []string) error {
	if len(args) == 0 {
		return usageError(s, "create")
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	fields, _ := splitPairs(args[1:])
	e, err := s.app.Create(ctx, kind, model.Fields(fields))
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Created %s %s\n", kind, e.EntityID())
	return s.returnToList(ctx, kind)
}

func cmdUpdate(ctx context.Context, s *Shell, args []string) error {
	if len(args) < 2 {
		return usageError(s, "update")
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	fields, _ := splitPairs(args[2:])
	e, err := s.app.Update(ctx, kind, args[1], model.Fields(fields))
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Updated %s %s\n", kind, e.EntityID())
	return s.returnToList(ctx, kind)
}

func appointmentCmd(verb string) func(ctx context.Context, s *Shell, args []string) error {
	return func(ctx context.Context, s *Shell, args []string) error {
		if len(args) == 0 {
			return apperrors.BadRequest("appointment id is required", nil)
		}
		var (
			appt model.Appointment
			err  error
		)
		switch verb {
		case "cancelled":
			appt, err = s.app.Cancel(ctx, args[0])
		case "confirmed":
			appt, err = s.app.Confirm(ctx, args[0])
		case "completed":
			appt, err = s.app.Complete(ctx, args[0])
		default:
			appt, err = s.app.Reschedule(ctx, args[0])
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Appointment %s %s (%s)\n", appt.ID, verb, model.StatusLabel(model.KindAppointment, string(appt.Status)))
		return s.returnToList(ctx, model.KindAppointment)
	}
}

func treatmentCmd(verb string) func(ctx context.Context, s *Shell, args []string) error {
	return func(ctx context.Context, s *Shell, args []string) error {
		if len(args) == 0 {
			return apperrors.BadRequest("treatment id is required", nil)
		}
		var (
			t   model.Treatment
			err error
		)
		if verb == "approved" {
			t, err = s.app.Approve(ctx, args[0])
		} else {
			t, err = s.app.Reject(ctx, args[0])
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Treatment %s %s (%s)\n", t.ID, verb, model.StatusLabel(model.KindTreatment, string(t.Status)))
		return s.returnToList(ctx, model.KindTreatment)
	}
}

func cmdAudit(ctx context.Context, s *Shell, args []string) error {
	filter := model.AuditFilter{}
	if len(args) > 0 {
		filter.EntityID = args[0]
	}
	entries, err := s.app.AuditLog(ctx, filter)
	if err != nil {
		return err
	}
	params := model.Params{}
	if filter.EntityID != "" {
		params["entityId"] = filter.EntityID
	}
	if _, err := s.app.Navigate(ctx, model.ScreenAuditLogs, params); err != nil {
		return err
	}
	return printAudit(s.out, entries)
}

func cmdDashboard(ctx context.Context, s *Shell, _ []string) error {
	stats, err := s.app.Dashboard(ctx)
	if err != nil {
		return err
	}
	if _, err := s.app.Navigate(ctx, model.ScreenDashboard, nil); err != nil {
		return err
	}
	return printDashboard(s.out, stats)
}

func cmdCan(_ context.Context, s *Shell, args []string) error {
	if len(args) == 0 {
		return usageError(s, "can")
	}
	capability, _ := model.ParseCapability(args[0])
	target := ""
	if len(args) > 1 {
		target = strings.ToUpper(args[1])
	}
	fmt.Fprintf(s.out, "%t\n", s.app.CanPerform(capability, target))
	return nil
}

func cmdMetrics(_ context.Context, s *Shell, _ []string) error {
	families, err := s.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(s.out, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

// returnToList navigates to the list a record kind is browsed from, the
// portal list for patients.
func (s *Shell) returnToList(ctx context.Context, kind model.EntityKind) error {
	screen := model.ListScreenFor(kind)
	if sess, ok := s.app.Session(); ok && sess.IsPatient() {
		switch kind {
		case model.KindAppointment:
			screen = model.ScreenMyAppointments
		case model.KindPatient:
			screen = model.ScreenMyProfile
		case model.KindMedicalRecord:
			screen = model.ScreenMyMedicalRecords
		}
	}
	state, err := s.app.Navigate(ctx, screen, nil)
	if err != nil {
		return err
	}
	printState(s.out, state)
	return nil
}

func usageError(s *Shell, name string) error {
	return apperrors.BadRequest("usage: "+s.commands[name].usage, nil)
}

func parseKind(s string) (model.EntityKind, error) {
	kind, ok := model.ParseEntityKind(s)
	if !ok {
		// accept plurals such as "patients" or "medical_records"
		kind, ok = model.ParseEntityKind(strings.TrimSuffix(s, "s"))
	}
	if !ok {
		return "", apperrors.NotFound(fmt.Sprintf("entity kind %q", s), nil)
	}
	return kind, nil
}

// splitPairs separates key=value arguments from positional ones.
func splitPairs(args []string) (map[string]string, []string) {
	pairs := map[string]string{}
	var positional []string
	for _, a := range args {
		if k, v, ok := strings.Cut(a, "="); ok && k != "" {
			pairs[k] = v
			continue
		}
		positional = append(positional, a)
	}
	return pairs, positional
}
