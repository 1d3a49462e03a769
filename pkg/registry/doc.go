/*
Package registry holds the named states of a session graph.

A Registry is assembled incrementally (forward references are allowed) and
validated on demand, so incomplete graphs can be wired up before every state
exists. The execution engine validates it again before starting a run.
*/
package registry
