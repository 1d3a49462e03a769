/*
Package domain contains the core domain models of the waypoint engine.

It defines the fundamental entities of the session state machine: States, the
Conditions that gate entry into them, the Actions run on entry, and the error
taxonomy returned by the engine. This package is kept pure and free of I/O;
everything that touches a remote UI goes through the opaque Driver handle the
caller supplies.

# Key Entities

  - State: A named screen in the session (ready Page, Action, ordered Transitions, WaitBudget).
  - Condition: A re-evaluable predicate over the observable session (And/Or/Not combinators).
  - Page: The condition-bearing screen object handed to the Action of its State.
  - LifecycleHooks: Observer callbacks used for metrics and diagnostics.
  - RunReport: The outcome snapshot of a single execution.
*/
package domain
