package screenshot

import "fmt"

// View selects which queue, and which directory, capture and retrieval act on.
type View int

const (
	// ViewQueue is the default input-gathering mode; captures land in screenshots/.
	ViewQueue View = iota
	// ViewSolutions is the follow-up mode shown alongside results; captures land in extra_screenshots/.
	ViewSolutions
)

// String returns the wire name of the view.
func (v View) String() string {
	switch v {
	case ViewQueue:
		return "queue"
	case ViewSolutions:
		return "solutions"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

// ParseView parses a wire name. "primary" and "extra" are accepted as aliases.
func ParseView(s string) (View, error) {
	switch s {
	case "queue", "primary":
		return ViewQueue, nil
	case "solutions", "extra":
		return ViewSolutions, nil
	default:
		return ViewQueue, fmt.Errorf("unknown view %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *View) UnmarshalText(text []byte) error {
	parsed, err := ParseView(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// other returns the view that is not v.
func (v View) other() View {
	if v == ViewQueue {
		return ViewSolutions
	}
	return ViewQueue
}
