package guard

import "fmt"

// Guard is a named access rule.
type Guard struct {
	Name  string
	Check func(State) Decision
}

type step func(State) (Outcome, error)

// Page is a view protected by an ordered list of guards.
type Page struct {
	view   View
	guards []string
	run    step
}

// Chain wraps view with guards. The last guard is wrapped first so that
// guards[0] ends up outermost and is evaluated first.
func Chain(view View, guards ...Guard) Page {
	next := terminal(view)
	for i := len(guards) - 1; i >= 0; i-- {
		next = wrap(guards[i], view, next)
	}
	names := make([]string, len(guards))
	for i, g := range guards {
		names[i] = g.Name
	}
	return Page{view: view, guards: names, run: next}
}

// View returns the page's own view.
func (p Page) View() View { return p.view }

// Guards returns the guard names in evaluation order.
func (p Page) Guards() []string {
	out := make([]string, len(p.guards))
	copy(out, p.guards)
	return out
}

// Evaluate runs the guards against st. The returned error, if any, wraps ErrMisconfiguredGuard.
func (p Page) Evaluate(st State) (Outcome, error) {
	if p.run == nil {
		return Outcome{}, &MisconfigurationError{Guard: "", Reason: "page built without Chain"}
	}
	return p.run(st)
}

func terminal(view View) step {
	return func(State) (Outcome, error) {
		v := view
		return Outcome{View: &v}, nil
	}
}

func wrap(g Guard, original View, next step) step {
	return func(st State) (Outcome, error) {
		d, err := decide(g, st)
		if err != nil {
			return Outcome{}, err
		}
		switch d.Kind {
		case KindRedirect:
			return Outcome{Redirect: &RedirectTo{Path: d.Target, Replace: d.Replace}, DecidedBy: g.Name}, nil
		case KindSubstitute:
			v := d.View.resolve(original)
			return Outcome{View: &v, DecidedBy: g.Name}, nil
		default:
			return next(st)
		}
	}
}

func decide(g Guard, st State) (d Decision, err error) {
	if g.Check == nil {
		return Decision{}, &MisconfigurationError{Guard: g.Name, Reason: "no check function"}
	}
	defer func() {
		if r := recover(); r != nil {
			d = Decision{}
			err = &MisconfigurationError{Guard: g.Name, Reason: fmt.Sprintf("panic: %v", r)}
		}
	}()
	d = g.Check(st)
	if !d.valid() {
		return Decision{}, &MisconfigurationError{Guard: g.Name, Reason: fmt.Sprintf("invalid %s decision", d.Kind)}
	}
	return d, nil
}
