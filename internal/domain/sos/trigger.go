package sos

import "fmt"

// TriggerSource identifies which front-end signal produced an SOS trigger.
type TriggerSource string

const (
	// SourceButton is the manual SOS button on the dashboard.
	SourceButton TriggerSource = "button"
	// SourceVoice is the speech recognizer detecting a trigger keyword.
	SourceVoice TriggerSource = "voice"
	// SourceSound is the sound monitor detecting a loud noise.
	SourceSound TriggerSource = "sound"
)

// Valid reports whether the source is one of the known trigger kinds.
func (s TriggerSource) Valid() bool {
	switch s {
	case SourceButton, SourceVoice, SourceSound:
		return true
	default:
		return false
	}
}

// Trigger carries the metadata of a single SOS activation request.
// Keyword is set for voice triggers, Level for sound triggers.
type Trigger struct {
	// Source is the signal producer that fired the trigger.
	Source TriggerSource
	// Keyword is the recognized word for voice triggers ("help", "sos", ...).
	Keyword string
	// Level is the measured sound level for sound triggers.
	Level float64
}

// Describe renders a short human-readable tag for status lines and the
// alert body header, e.g. `voice trigger ("help")`.
func (t Trigger) Describe() string {
	switch t.Source {
	case SourceVoice:
		return fmt.Sprintf("voice trigger (%q)", t.Keyword)
	case SourceSound:
		return fmt.Sprintf("sound trigger (level %.0f)", t.Level)
	default:
		return "SOS button"
	}
}
