package guard

import "github.com/tips-admin-api/internal/domain"

// Kind is the kind of a guard decision. The zero value is invalid.
type Kind int

const (
	kindInvalid Kind = iota
	KindDelegate
	KindRedirect
	KindSubstitute
)

func (k Kind) String() string {
	switch k {
	case KindDelegate:
		return "delegate"
	case KindRedirect:
		return "redirect"
	case KindSubstitute:
		return "substitute"
	default:
		return "invalid"
	}
}

// Well-known view names.
const (
	ViewNotFound = "not_found"
	ViewExpired  = "session_expired"

	// viewOriginal is a placeholder the runner replaces with the page's own view.
	viewOriginal = "$original"
)

// View describes what gets rendered. Child is set when the view wraps another one.
type View struct {
	Name  string `json:"name"`
	Child *View  `json:"child,omitempty"`
}

// NotFound is the generic 404 view.
func NotFound() View { return View{Name: ViewNotFound} }

// ExpiredNotice renders the page that was asked for with a session expiration notice on top.
func ExpiredNotice() View {
	return View{Name: ViewExpired, Child: &View{Name: viewOriginal}}
}

// resolve replaces the original-view placeholder with v.
func (v View) resolve(original View) View {
	if v.Name == viewOriginal {
		return original
	}
	if v.Child != nil {
		c := v.Child.resolve(original)
		v.Child = &c
	}
	return v
}

// Decision is what a single guard decided for one evaluation.
type Decision struct {
	Kind    Kind
	Target  string
	Replace bool
	View    View
}

func Delegate() Decision { return Decision{Kind: KindDelegate} }

func Redirect(target string, replace bool) Decision {
	return Decision{Kind: KindRedirect, Target: target, Replace: replace}
}

func Substitute(v View) Decision { return Decision{Kind: KindSubstitute, View: v} }

func (d Decision) valid() bool {
	switch d.Kind {
	case KindDelegate:
		return true
	case KindRedirect:
		return d.Target != ""
	case KindSubstitute:
		return d.View.Name != ""
	default:
		return false
	}
}

// State is everything a guard may read.
type State struct {
	Session domain.SessionState
	Intent  domain.Intent
	Params  domain.Params
}

// RedirectTo is a navigation instruction. Replace drops the current history entry.
type RedirectTo struct {
	Path    string `json:"path"`
	Replace bool   `json:"replace"`
}

// Outcome is the result of evaluating a page: exactly one of Redirect or View is set.
// DecidedBy names the guard that ended the evaluation, empty when every guard delegated.
type Outcome struct {
	Redirect  *RedirectTo
	View      *View
	DecidedBy string
}

// Substituted reports whether a guard replaced the page's view.
func (o Outcome) Substituted() bool { return o.View != nil && o.DecidedBy != "" }
