package models

// Status is the lifecycle state of a dialogmøte.
type Status string

const (
	StatusInnkalt     Status = "INNKALT"
	StatusNyttTidSted Status = "NYTT_TID_STED"
	StatusAvlyst      Status = "AVLYST"
	StatusFerdigstilt Status = "FERDIGSTILT"
	// StatusLukket is set by the outdated sweep. No participant is notified.
	StatusLukket Status = "LUKKET"
)

// IsOpen reports whether the meeting still accepts transitions.
func (s Status) IsOpen() bool {
	return s == StatusInnkalt || s == StatusNyttTidSted
}

// IsTerminal reports whether s is AVLYST, FERDIGSTILT or LUKKET.
func (s Status) IsTerminal() bool {
	return s == StatusAvlyst || s == StatusFerdigstilt || s == StatusLukket
}

// CanTransitionTo encodes the lifecycle graph. Every transition starts in an
// open status; INNKALT is only ever an initial status.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.IsOpen() {
		return false
	}
	switch next {
	case StatusNyttTidSted, StatusAvlyst, StatusFerdigstilt, StatusLukket:
		return true
	default:
		return false
	}
}

func (s Status) IsValid() bool {
	switch s {
	case StatusInnkalt, StatusNyttTidSted, StatusAvlyst, StatusFerdigstilt, StatusLukket:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }
