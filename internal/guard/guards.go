package guard

import "github.com/tips-admin-api/internal/domain"

// Redirect targets.
const (
	PathLogin   = "/login"
	PathLanding = "/admin/statistics"
)

// accountVerified is the verification flag read by FromSignupShouldBeLoginedAndNotVerified.
// Accounts are always treated as not verified here.
const accountVerified = false

// LoggedUserCanNotOpen keeps logged-in users away from the auth pages.
var LoggedUserCanNotOpen = Guard{
	Name: "LoggedUserCanNotOpen",
	Check: func(st State) Decision {
		if st.Session.LoggedIn() {
			return Redirect(PathLanding, true)
		}
		return Delegate()
	},
}

// PrivatePages requires a session. An expired session keeps the page but shows a notice.
var PrivatePages = Guard{
	Name: "PrivatePages",
	Check: func(st State) Decision {
		if !st.Session.LoggedIn() {
			return Redirect(PathLogin, true)
		}
		if st.Session.Expired() {
			return Substitute(ExpiredNotice())
		}
		return Delegate()
	},
}

// ValidateVerifyState requires the intent set by the signup/forgot pages.
var ValidateVerifyState = Guard{
	Name: "ValidateVerifyState",
	Check: func(st State) Decision {
		if !st.Intent.HasAll(domain.IntentFrom, domain.IntentPhone, domain.IntentEmail) {
			return Substitute(NotFound())
		}
		return Delegate()
	},
}

// ValidateOtpState requires the intent set when an OTP was sent.
var ValidateOtpState = Guard{
	Name: "ValidateOtpState",
	Check: func(st State) Decision {
		if !st.Intent.HasAll(domain.IntentFrom, domain.IntentType, domain.IntentValue) {
			return Substitute(NotFound())
		}
		return Delegate()
	},
}

// FromSignupShouldBeLoginedAndNotVerified hides slugs ending in "-signup" from anonymous
// or already verified users.
var FromSignupShouldBeLoginedAndNotVerified = Guard{
	Name: "FromSignupShouldBeLoginedAndNotVerified",
	Check: func(st State) Decision {
		if st.Params.Last() == domain.FlowSignup && (!st.Session.LoggedIn() || accountVerified) {
			return Substitute(NotFound())
		}
		return Delegate()
	},
}

// FromSignupShouldBeLogined requires a session and a finished signup.
var FromSignupShouldBeLogined = Guard{
	Name: "FromSignupShouldBeLogined",
	Check: func(st State) Decision {
		if !st.Session.LoggedIn() || !st.Intent.Has(domain.IntentIsDone) {
			return Substitute(NotFound())
		}
		return Delegate()
	},
}

// ThereOtpAndPhoneOrEmail requires an OTP type or a verified code in the intent.
var ThereOtpAndPhoneOrEmail = Guard{
	Name: "ThereOtpAndPhoneOrEmail",
	Check: func(st State) Decision {
		if !st.Intent.Has(domain.IntentType) && !st.Intent.Has(domain.IntentOTPCode) {
			return Substitute(NotFound())
		}
		return Delegate()
	},
}

var registry = map[string]Guard{}

func init() {
	for _, g := range []Guard{
		LoggedUserCanNotOpen,
		PrivatePages,
		ValidateVerifyState,
		ValidateOtpState,
		FromSignupShouldBeLoginedAndNotVerified,
		FromSignupShouldBeLogined,
		ThereOtpAndPhoneOrEmail,
	} {
		registry[g.Name] = g
	}
}

// ByName looks up a built-in guard.
func ByName(name string) (Guard, bool) {
	g, ok := registry[name]
	return g, ok
}

// MustChain builds a page from guard names and panics on an unknown name.
func MustChain(view View, names ...string) Page {
	guards := make([]Guard, len(names))
	for i, n := range names {
		g, ok := ByName(n)
		if !ok {
			panic(&MisconfigurationError{Guard: n, Reason: "unknown guard"})
		}
		guards[i] = g
	}
	return Chain(view, guards...)
}
