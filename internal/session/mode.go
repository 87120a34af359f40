package session

import "fmt"

// Mode is the kind of interval the coordinator runs next.
type Mode int

const (
	ModeWork Mode = iota
	ModeShortBreak
	ModeLongBreak
)

func (m Mode) String() string {
	switch m {
	case ModeWork:
		return "work"
	case ModeShortBreak:
		return "short_break"
	case ModeLongBreak:
		return "long_break"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Label is the human-readable name shown by the terminal UI.
func (m Mode) Label() string {
	switch m {
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	}
	return "Work"
}

func (m Mode) IsBreak() bool { return m == ModeShortBreak || m == ModeLongBreak }
