package domain

type BreathPhase string

const (
	PhaseInhale  BreathPhase = "Inhale"
	PhaseExhale  BreathPhase = "Exhale"
	PhaseHold    BreathPhase = "Hold"
	PhaseBreathe BreathPhase = "Breathe"
	PhaseNone    BreathPhase = ""
)

// PhaseAt returns the breathing cue to show elapsed seconds into a step.
// An alternating cycle spends its first half inhaling and second half exhaling.
func PhaseAt(step Step, elapsed int) BreathPhase {
	switch step.BreathingCue {
	case CueHold:
		return PhaseHold
	case CueAlternating:
		cycle := step.BreathingCycleSeconds
		if cycle <= 1 {
			return PhaseBreathe
		}
		if elapsed < 0 {
			elapsed = 0
		}
		if elapsed%cycle < cycle/2 {
			return PhaseInhale
		}
		return PhaseExhale
	default:
		return PhaseNone
	}
}
