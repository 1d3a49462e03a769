/*
Package ports defines the driven ports (interfaces) around the waypoint engine.

These interfaces decouple session orchestration from external implementations,
allowing several replicas to coordinate and keep run diagnostics in various backends.

# Key Interfaces

  - ReportStore: Persists the RunReport of each session for later diagnosis.
  - DistributedLocker: Provides distributed locking so a session is driven by one replica at a time.
*/
package ports
