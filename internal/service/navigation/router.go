package navigation

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/pkg/logger"
	"github.com/jwalitptl/clinic-records/pkg/metrics"
)

// LabelResolver looks up the record a screen displays. Lookups are read-only.
type LabelResolver interface {
	Get(ctx context.Context, kind model.EntityKind, id string) (model.Entity, error)
}

// SessionState reports whether a role is signed in.
type SessionState interface {
	Active() bool
}

// Router owns the current screen and the breadcrumb trail.
type Router struct {
	mu       sync.Mutex
	state    model.NavigationState
	resolver LabelResolver
	sessions SessionState
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewRouter(resolver LabelResolver, sessions SessionState, log *logger.Logger, m *metrics.Metrics) *Router {
	if log == nil {
		log = logger.Nop()
	}
	r := &Router{
		resolver: resolver,
		sessions: sessions,
		logger:   log,
		metrics:  m,
	}
	r.state = model.NavigationState{
		Screen: model.ScreenLogin,
		Params: model.Params{},
		Path:   []model.Breadcrumb{{Screen: model.ScreenLogin, Label: r.titleOf(model.ScreenLogin), Params: model.Params{}}},
	}
	return r
}

// Navigate moves to target and returns the resulting state. Root screens and
// signed-out navigation reset the trail. Revisiting a screen already on the
// trail with the same params truncates back to that crumb, keeping its label.
// Anything else is appended.
func (r *Router) Navigate(ctx context.Context, target model.ScreenID, params model.Params) model.NavigationState {
	params = params.Clone()
	crumb := model.Breadcrumb{
		Screen: target,
		Label:  r.Label(ctx, target, params),
		Params: params,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case target.IsRoot() || r.sessions == nil || !r.sessions.Active():
		r.state.Path = []model.Breadcrumb{crumb}
	default:
		if i := r.indexOf(target, params); i >= 0 {
			r.state.Path = r.state.Path[:i+1]
		} else {
			r.state.Path = append(r.state.Path, crumb)
		}
	}
	r.state.Screen = target
	r.state.Params = params.Clone()

	if r.metrics != nil {
		r.metrics.Navigations.WithLabelValues(string(target)).Inc()
	}
	r.logger.Debug("Navigated", "screen", string(target), "depth", len(r.state.Path))

	return r.state.Clone()
}

// Back returns to the previous breadcrumb. On a single-entry trail it is a
// no-op.
func (r *Router) Back(ctx context.Context) model.NavigationState {
	state := r.State()
	if len(state.Path) < 2 {
		return state
	}
	prev := state.Path[len(state.Path)-2]
	return r.Navigate(ctx, prev.Screen, prev.Params)
}

// State returns a copy of the current navigation state.
func (r *Router) State() model.NavigationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}

// Label computes the breadcrumb label for target. It is a pure function of
// the target, the params and the current record contents.
func (r *Router) Label(ctx context.Context, target model.ScreenID, params model.Params) string {
	if id := params.ID(); id != "" {
		if kind, ok := target.EntityKind(); ok {
			name := "ID: " + id
			if r.resolver != nil {
				if e, err := r.resolver.Get(ctx, kind, id); err == nil && e.DisplayName() != "" {
					name = e.DisplayName()
				}
			}
			if target.IsForm() {
				return "Edit " + name
			}
			return name
		}
	}
	if target.IsForm() {
		return "New " + r.titleOf(target)
	}
	return r.titleOf(target)
}

func (r *Router) indexOf(target model.ScreenID, params model.Params) int {
	for i, c := range r.state.Path {
		if c.Screen == target && c.Params.Equal(params) {
			return i
		}
	}
	return -1
}

var screenSuffixes = []string{"_LIST", "_DETAIL", "_FORM"}

func (r *Router) titleOf(screen model.ScreenID) string {
	s := string(screen)
	for _, suffix := range screenSuffixes {
		s = strings.TrimSuffix(s, suffix)
	}
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English).String(strings.ToLower(s))
}
