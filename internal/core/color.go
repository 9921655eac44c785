package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorOrange
	ColorYellow
	ColorGreen
	ColorCyan
	ColorBlue
	ColorPurple
	ColorPink
	ColorBrown
	ColorGray
	ColorWhite
	ColorBrightWhite
	ColorDim
)

// BallColors lists the colors used for balls, indexed by ball color.
// The order follows the classic ten-color set: red, orange, yellow, green,
// cyan, blue, purple, pink, brown, gray.
var BallColors = []Color{
	ColorRed,
	ColorOrange,
	ColorYellow,
	ColorGreen,
	ColorCyan,
	ColorBlue,
	ColorPurple,
	ColorPink,
	ColorBrown,
	ColorGray,
}

// ballHex holds RGB hex codes for image output, indexed like BallColors.
var ballHex = []string{
	"#FF0000",
	"#FF7F00",
	"#FFFF00",
	"#00FF00",
	"#00FFFF",
	"#0000FF",
	"#8B00FF",
	"#FF69B4",
	"#A0522D",
	"#808080",
}

// BallColor returns the screen color for ball color index i.
// Indices past the palette wrap around.
func BallColor(i int) Color {
	if i < 0 {
		return ColorDefault
	}
	return BallColors[i%len(BallColors)]
}

// BallHex returns the RGB hex code for ball color index i.
func BallHex(i int) string {
	if i < 0 {
		return "#000000"
	}
	return ballHex[i%len(ballHex)]
}
