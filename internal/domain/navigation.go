package domain

import "strings"

// Navigation intent keys set by the page that triggers a transition.
const (
	IntentFrom    = "from"
	IntentPhone   = "phone"
	IntentEmail   = "email"
	IntentType    = "type"
	IntentValue   = "value"
	IntentIsDone  = "isDone"
	IntentOTPCode = "otp_code"
)

// Flow tags carried in the "from" key.
const (
	FlowSignup = "signup"
	FlowForgot = "forgot"
)

// Intent is the transient key/value state attached to a single navigation.
// A nil Intent behaves as an empty one.
type Intent map[string]string

// Has reports whether key is present with a non-empty value.
func (i Intent) Has(key string) bool {
	return i[key] != ""
}

// HasAll reports whether every key is present.
func (i Intent) HasAll(keys ...string) bool {
	for _, k := range keys {
		if !i.Has(k) {
			return false
		}
	}
	return true
}

func (i Intent) Get(key string) string { return i[key] }

// Params holds the route parameters of the page being opened.
type Params struct {
	Slug string
}

// Parts splits the dash-delimited slug. An empty slug has no parts.
func (p Params) Parts() []string {
	if p.Slug == "" {
		return nil
	}
	return strings.Split(p.Slug, "-")
}

// Last returns the final slug part or "" for an empty slug.
func (p Params) Last() string {
	parts := p.Parts()
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
