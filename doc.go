/*
Package waypoint is a state machine engine for driving long-lived interactive
sessions (a scripted browser, a remote UI) through a sequence of named states.

Every state owns an optional ready condition (its Page), an optional Action, an
ordered list of candidate successors and a wait budget. After running a state's
Action the engine polls the candidates, in declared order, until one of them is
ready or the budget runs out. The observed surface is assumed to be slow,
eventually consistent and flaky: readiness is re-evaluated on every pass and
never cached.

# Usage

	reg := registry.NewRegistry()
	reg.SetInitialState("init")

	_ = reg.AddState(domain.State{
		Name:        "init",
		Action:      dom.VisitAction("/login"),
		Transitions: []string{"login"},
	})
	_ = reg.AddState(domain.State{
		Name:        "login",
		Ready:       dom.Visible("form#login"),
		Action:      dom.Submit("form#login", map[string]string{"user": "demo"}),
		Transitions: []string{"landing"},
		WaitBudget:  30 * time.Second,
	})
	_ = reg.AddState(domain.State{
		Name:  "landing",
		Ready: dom.TitleContains("Home"),
	})

	browser, err := dom.NewBrowser("https://example.com")
	if err != nil {
		log.Fatal(err)
	}
	eng, err := waypoint.New(reg, browser)
	if err != nil {
		log.Fatal(err)
	}
	eng.OnEnterState(func(ctx context.Context, state string) error {
		log.Println("entered", state)
		return nil
	})

	if _, err := eng.Execute(context.Background()); err != nil {
		log.Fatal(err)
	}

# Errors

Execute returns *domain.NoInitialStateError or *domain.MissingStateError before
anything runs, *domain.TransitionTimeoutError when a wait budget is exhausted and
*domain.CancelledError when the context is done. Errors raised by Actions,
Conditions or the enter hook are returned exactly as raised.
*/
package waypoint
