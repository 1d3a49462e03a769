package domain

import "context"

// Page is the condition-bearing screen object of a State.
// Its Ready method is the State's ready condition; screen-specific
// operations live on the concrete type, which Actions recover with a type assertion.
type Page interface {
	Condition
}

// Action is executed exactly once each time its State is entered, before any
// transition is attempted. page is the State's Page, or nil when the State has none.
//
// By contract a successful Action should eventually make one of the State's
// transition targets ready; the engine only enforces the wait budget.
type Action func(ctx context.Context, d Driver, page Page) error
