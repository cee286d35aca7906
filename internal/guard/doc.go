// Package guard decides whether a dashboard page may be opened.
//
// A guard reads the caller's session, the navigation intent attached to the
// transition and the route params, and returns one of three decisions:
// delegate to the next guard, redirect, or substitute another view.
//
// Chain builds a Page from an ordered guard list. Construction folds the list
// from the last guard inward so the first guard is the outermost one; at
// evaluation time guards run in declaration order and the first guard that
// does not delegate ends the evaluation.
package guard
