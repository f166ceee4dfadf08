package handler

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/service/dashboard"
)

const breadcrumbSeparator = " > "

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func printState(out io.Writer, state model.NavigationState) {
	fmt.Fprintf(out, "[%s] %s\n", state.Screen, strings.Join(state.Labels(), breadcrumbSeparator))
}

func printList(out io.Writer, kind model.EntityKind, entities []model.Entity) error {
	if len(entities) == 0 {
		fmt.Fprintln(out, "No records found.")
		return nil
	}
	w := newTable(out)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tPATIENT")
	for _, e := range entities {
		status := model.StatusLabel(kind, e.CurrentStatus())
		if status == "" {
			status = "-"
		}
		ref := e.PatientRef()
		if ref == "" || ref == e.EntityID() {
			ref = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.EntityID(), e.DisplayName(), status, ref)
	}
	return w.Flush()
}

// printRecord renders a record as YAML keyed by field name.
func printRecord(out io.Writer, e model.Entity) error {
	doc := map[string]string(model.FieldsOf(e))
	if label := model.StatusLabel(e.Kind(), e.CurrentStatus()); label != "" {
		doc["status"] = fmt.Sprintf("%s (%s)", e.CurrentStatus(), label)
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to render record: %w", err)
	}
	return enc.Close()
}

func printAudit(out io.Writer, entries []model.AuditEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No audit entries.")
		return nil
	}
	w := newTable(out)
	fmt.Fprintln(w, "ID\tTIME\tUSER\tACTION\tENTITY\tDETAILS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s %s\t%s\n",
			e.ID, e.ISOTimestamp(), e.Actor, e.Action, e.EntityKind, e.EntityID, e.Details)
	}
	return w.Flush()
}

func printDashboard(out io.Writer, stats *dashboard.Stats) error {
	w := newTable(out)
	fmt.Fprintf(w, "Total patients\t%d\n", stats.TotalPatients)
	fmt.Fprintf(w, "Active appointments\t%d\n", stats.ActiveAppointments)
	fmt.Fprintf(w, "Completed today\t%d\n", stats.CompletedToday)
	fmt.Fprintf(w, "Pending treatments\t%d\n", stats.PendingTreatments)
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out, "Recent activity:")
	for _, a := range stats.RecentActivity {
		fmt.Fprintf(out, "  %s  %s\n", a.Timestamp.UTC().Format("2006-01-02 15:04"), a.Description)
	}
	return nil
}
