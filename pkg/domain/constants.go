package domain

import "time"

const (
	// DefaultWaitBudget is used by states that do not declare a WaitBudget.
	DefaultWaitBudget = 30 * time.Second

	// DefaultPollInterval is the pause between two readiness passes over the candidates.
	DefaultPollInterval = 250 * time.Millisecond
)
