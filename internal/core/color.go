package core

// Color represents a foreground color for a screen cell.
// The platform maps each value to an ANSI 256-color code.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightCyan
	ColorOrange
	ColorGray
)

// Scene palette.
const (
	ColorCoin   = ColorBrightYellow
	ColorRunner = ColorBrightCyan
	ColorGround = ColorGray
	ColorAd     = ColorMagenta
	ColorReward = ColorBrightGreen
	ColorAlert  = ColorBrightRed
)
