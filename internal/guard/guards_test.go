package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tips-admin-api/internal/domain"
)

var dashboard = View{Name: "statistics"}

func loggedIn(status domain.SessionStatus) domain.SessionState {
	return domain.SessionState{Token: "abc", Status: status}
}

func TestPrivatePages_NoToken_RedirectsToLogin(t *testing.T) {
	for _, status := range []domain.SessionStatus{"", domain.SessionActive, domain.SessionExpired} {
		d := PrivatePages.Check(State{Session: domain.SessionState{Status: status}})
		assert.Equal(t, Redirect(PathLogin, true), d, "status %q", status)
	}
}

func TestPrivatePages_Expired_SubstitutesNotice(t *testing.T) {
	d := PrivatePages.Check(State{Session: loggedIn(domain.SessionExpired)})
	assert.Equal(t, KindSubstitute, d.Kind)
	assert.Equal(t, ViewExpired, d.View.Name)
}

func TestPrivatePages_ActiveOrUnknownStatus_Delegates(t *testing.T) {
	for _, status := range []domain.SessionStatus{"", domain.SessionActive, "REFRESHING"} {
		assert.Equal(t, Delegate(), PrivatePages.Check(State{Session: loggedIn(status)}), "status %q", status)
	}
}

func TestLoggedUserCanNotOpen(t *testing.T) {
	assert.Equal(t, Redirect(PathLanding, true), LoggedUserCanNotOpen.Check(State{Session: loggedIn(domain.SessionActive)}))
	assert.Equal(t, Redirect(PathLanding, true), LoggedUserCanNotOpen.Check(State{Session: loggedIn(domain.SessionExpired)}))
	assert.Equal(t, Delegate(), LoggedUserCanNotOpen.Check(State{}))
}

func TestValidateVerifyState(t *testing.T) {
	full := domain.Intent{"from": "signup", "phone": "+15550100", "email": "a@b.com"}
	assert.Equal(t, Delegate(), ValidateVerifyState.Check(State{Intent: full}))

	for _, missing := range []string{"from", "phone", "email"} {
		in := domain.Intent{}
		for k, v := range full {
			if k != missing {
				in[k] = v
			}
		}
		assert.Equal(t, Substitute(NotFound()), ValidateVerifyState.Check(State{Intent: in}), "missing %s", missing)
	}
	assert.Equal(t, Substitute(NotFound()), ValidateVerifyState.Check(State{}))
}

func TestValidateOtpState(t *testing.T) {
	assert.Equal(t, Substitute(NotFound()), ValidateOtpState.Check(State{Intent: domain.Intent{}}))
	assert.Equal(t, Substitute(NotFound()), ValidateOtpState.Check(State{Intent: domain.Intent{"from": "forgot", "type": "phone"}}))
	assert.Equal(t, Delegate(), ValidateOtpState.Check(State{Intent: domain.Intent{"from": "forgot", "type": "phone", "value": "+15550100"}}))
}

func TestFromSignupShouldBeLoginedAndNotVerified(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		session domain.SessionState
		want    Decision
	}{
		{"signup slug without token", "123-signup", domain.SessionState{}, Substitute(NotFound())},
		{"signup slug with token", "123-signup", loggedIn(domain.SessionActive), Delegate()},
		{"multi-part signup slug without token", "12-34-signup", domain.SessionState{}, Substitute(NotFound())},
		{"signup in the middle", "12-signup-34", domain.SessionState{}, Delegate()},
		{"bare signup slug", "signup", domain.SessionState{}, Substitute(NotFound())},
		{"other slug without token", "123-edit", domain.SessionState{}, Delegate()},
		{"no slug", "", domain.SessionState{}, Delegate()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := State{Session: tt.session, Params: domain.Params{Slug: tt.slug}}
			assert.Equal(t, tt.want, FromSignupShouldBeLoginedAndNotVerified.Check(st))
		})
	}
}

func TestFromSignupShouldBeLogined(t *testing.T) {
	done := domain.Intent{"isDone": "true"}
	assert.Equal(t, Substitute(NotFound()), FromSignupShouldBeLogined.Check(State{Intent: done}))
	assert.Equal(t, Substitute(NotFound()), FromSignupShouldBeLogined.Check(State{Session: loggedIn(domain.SessionActive)}))
	assert.Equal(t, Delegate(), FromSignupShouldBeLogined.Check(State{Session: loggedIn(domain.SessionActive), Intent: done}))
}

func TestThereOtpAndPhoneOrEmail(t *testing.T) {
	assert.Equal(t, Substitute(NotFound()), ThereOtpAndPhoneOrEmail.Check(State{}))
	assert.Equal(t, Delegate(), ThereOtpAndPhoneOrEmail.Check(State{Intent: domain.Intent{"type": "email"}}))
	assert.Equal(t, Delegate(), ThereOtpAndPhoneOrEmail.Check(State{Intent: domain.Intent{"otp_code": "123456"}}))
}

func TestGuards_Idempotent(t *testing.T) {
	states := []State{
		{},
		{Session: loggedIn(domain.SessionActive)},
		{Session: loggedIn(domain.SessionExpired), Intent: domain.Intent{"from": "signup"}},
		{Params: domain.Params{Slug: "9-signup"}},
	}
	for name, g := range registry {
		for _, st := range states {
			assert.Equal(t, g.Check(st), g.Check(st), name)
		}
	}
}

func TestByName(t *testing.T) {
	g, ok := ByName("PrivatePages")
	assert.True(t, ok)
	assert.Equal(t, "PrivatePages", g.Name)

	_, ok = ByName("CanEditOwnProfile")
	assert.False(t, ok)
	assert.Len(t, registry, 7)
}
