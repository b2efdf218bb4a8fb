package models

import (
	dErrors "storefront/pkg/domain-errors"
)

// Directive tells the caller where to send a request the resolver could not
// serve. The resolver never performs the redirect itself.
type Directive string

const (
	DirectiveNone        Directive = ""
	DirectiveLogin       Directive = "login"
	DirectiveOnboarding  Directive = "onboarding"
	DirectiveSelectStore Directive = "select_store"
)

// Path is the entry point a directive routes to.
func (d Directive) Path() string {
	switch d {
	case DirectiveLogin:
		return "/login"
	case DirectiveOnboarding:
		return "/onboarding"
	case DirectiveSelectStore:
		return "/select-store"
	default:
		return ""
	}
}

// Resolution is either a resolved Store or a Directive, never both.
type Resolution struct {
	Store     *Store
	Directive Directive
}

func (r Resolution) Resolved() bool {
	return r.Store != nil
}

// DirectiveFor maps a resolver error to the routing directive that recovers
// from it. Errors without a recovery (backend failures) map to DirectiveNone.
func DirectiveFor(err error) Directive {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeUnauthenticated:
		return DirectiveLogin
	case dErrors.CodeNoStoreForIdentity:
		return DirectiveOnboarding
	case dErrors.CodeStoreNotFound, dErrors.CodeForbidden:
		return DirectiveSelectStore
	default:
		return DirectiveNone
	}
}
