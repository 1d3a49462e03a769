package dom

import (
	"context"

	"github.com/aretw0/waypoint/pkg/domain"
)

func navigator(d domain.Driver) (Navigator, error) {
	nav, ok := d.(Navigator)
	if !ok {
		return nil, ErrNotBrowser
	}
	return nav, nil
}

// VisitAction loads ref when the state is entered.
func VisitAction(ref string) domain.Action {
	return func(ctx context.Context, d domain.Driver, _ domain.Page) error {
		nav, err := navigator(d)
		if err != nil {
			return err
		}
		return nav.Visit(ctx, ref)
	}
}

// Submit fills and submits the form matching selector when the state is entered.
func Submit(selector string, values map[string]string) domain.Action {
	return func(ctx context.Context, d domain.Driver, _ domain.Page) error {
		nav, err := navigator(d)
		if err != nil {
			return err
		}
		return nav.SubmitForm(ctx, selector, values)
	}
}

// Sequence runs actions in order, stopping at the first error.
func Sequence(actions ...domain.Action) domain.Action {
	return func(ctx context.Context, d domain.Driver, page domain.Page) error {
		for _, a := range actions {
			if a == nil {
				continue
			}
			if err := a(ctx, d, page); err != nil {
				return err
			}
		}
		return nil
	}
}
