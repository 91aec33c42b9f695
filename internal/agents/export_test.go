package agents

// SetJoinHook installs fn to run after each caller enters a sync flight.
func SetJoinHook(s *Synchronizer, fn func(id string)) {
	s.joined = fn
}
