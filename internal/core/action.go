package core

// Action is a semantic user intent, abstracted from physical key presses.
type Action int

const (
	ActionNone     Action = iota
	ActionPlay            // Space, Enter - start (or restart) a run
	ActionShowAd          // A - watch a rewarded ad
	ActionCloseAd         // X - close the ad early
	ActionMenu            // M - open the options menu
	ActionHistory         // H - open the history view
	ActionUp              // Up, K - menu navigation
	ActionDown            // Down, J - menu navigation
	ActionConfirm         // Enter - confirm menu selection
	ActionBack            // Esc, B - close overlay
	ActionAccept          // Y - accept consent prompt
	ActionLimit           // L - allow non-personalized ads only
	ActionDecline         // N - decline consent prompt
	ActionHelp            // ? - toggle full key help
	ActionQuit            // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionPlay:
		return "Play"
	case ActionShowAd:
		return "ShowAd"
	case ActionCloseAd:
		return "CloseAd"
	case ActionMenu:
		return "Menu"
	case ActionHistory:
		return "History"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionAccept:
		return "Accept"
	case ActionLimit:
		return "Limit"
	case ActionDecline:
		return "Decline"
	case ActionHelp:
		return "Help"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
