/*
Package dsl provides a fluent builder for assembling waypoint state graphs in Go.

Example usage:

	reg, err := dsl.New().
		Add("init").Do(dom.VisitAction("/login")).Go("login").
		Add("login").When(dom.Visible("form#login")).
		Do(dom.Submit("form#login", creds)).Go("landing", "error").Wait(30 * time.Second).
		Add("landing").When(dom.TitleContains("Home")).Terminal().
		Add("error").When(dom.Visible(".alert-danger")).Terminal().
		Build()

The first state added is the initial state unless Builder.Start says otherwise.
Build validates the graph, so dangling transitions are reported immediately.
*/
package dsl
