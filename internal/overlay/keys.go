package overlay

// Action is what the window should do in response to input
type Action int

const (
	ActionNone Action = iota
	ActionClose
)

// HandleKey maps a DOM KeyboardEvent.key value to an action.
// Q (either case) and Escape close the overlay.
func (s *Service) HandleKey(key string) Action {
	switch key {
	case "q", "Q", "Escape", "Esc":
		return ActionClose
	default:
		return ActionNone
	}
}
