package engine

// NextPhase recomputes the conversation phase from scratch. Precedence is
// fixed: early turn-count buckets win outright; past turn 10 the phase
// depends on how the conversation is actually going. When no clause matches,
// the previous phase is kept — which also means the phase can regress when a
// struggling conversation falls back through a bucket boundary.
func NextPhase(prev Phase, traineeTurns, satisfaction, trust int) Phase {
	switch {
	case traineeTurns <= 2:
		return PhaseInitial
	case traineeTurns <= 6:
		return PhaseExploration
	case traineeTurns <= 10:
		return PhaseNegotiation
	case satisfaction > 70 && trust > 60:
		return PhaseDecision
	case traineeTurns > 12:
		return PhaseClosing
	}
	return prev
}
