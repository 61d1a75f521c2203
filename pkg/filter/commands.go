// Registry of named filters.
//
// This file mirrors the commands built by Build in build.go. Keep this list
// up-to-date when you add or modify commands so callers (CLI, docs, help text)
// can read a single source of truth.

package filter

import (
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// ArgSpec describes a single argument for a command. Fields are textual
// and intended for help/validation UI rather than machine-enforced typing.
type ArgSpec struct {
	Name        string // human name
	Type        string // "int", "float", "enum", "color", "mask"
	Required    bool
	Default     string // textual default (for help only)
	Description string
}

// CommandSpec defines a single command and its expected arguments.
type CommandSpec struct {
	Name        string
	Args        []ArgSpec
	Usage       string
	Description string
}

var shapeArg = ArgSpec{"shape", "mask", false, "plus", "plus, squareN, or rows like 010,111,010"}

// Commands is the authoritative list of commands implemented by Build.
var Commands = []CommandSpec{
	{Name: "invert", Usage: "invert", Description: "Invert every channel."},
	{Name: "grayscale", Usage: "grayscale", Description: "Luma grayscale (0.299R + 0.587G + 0.113B)."},
	{
		Name:        "sepia",
		Args:        []ArgSpec{{"depth", "float", false, "15", "tint strength k"}},
		Usage:       "sepia [depth]",
		Description: "Sepia tint: R=I+2k, G=I+k/2, B=I-k.",
	},
	{
		Name:        "brightness",
		Args:        []ArgSpec{{"amount", "float", false, "50", "value added to every channel"}},
		Usage:       "brightness [amount]",
		Description: "Add a constant to every channel.",
	},
	{Name: "grayWorld", Usage: "grayWorld", Description: "Gray-world white balance from channel averages."},
	{
		Name: "baseColor",
		Args: []ArgSpec{
			{"x", "int", false, "0", "reference pixel column"},
			{"y", "int", false, "0", "reference pixel row"},
			{"target", "color", false, "128,128,128", "target color as R,G,B"},
		},
		Usage:       "baseColor [x] [y] [target]",
		Description: "Rescale channels so the reference pixel becomes the target color.",
	},
	{Name: "histogram", Usage: "histogram", Description: "Stretch the range of per-pixel maxima to 0..255."},
	{
		Name:        "shift",
		Args:        []ArgSpec{{"offset", "int", false, "50", "columns to shift left"}},
		Usage:       "shift [offset]",
		Description: "Translate left, filling the right edge with black.",
	},
	{
		Name: "glass",
		Args: []ArgSpec{
			{"spread", "float", false, "5", "maximum displacement"},
			{"seed", "int", false, "0", "random seed"},
		},
		Usage:       "glass [spread] [seed]",
		Description: "Frosted glass: sample a random nearby pixel.",
	},
	{
		Name: "median",
		Args: []ArgSpec{
			{"radius", "int", false, "2", "window radius"},
			{"rank", "enum", false, "middle", "middle or fixed"},
		},
		Usage:       "median [radius] [rank]",
		Description: "Median by brightness over a square window.",
	},
	{
		Name:        "blur",
		Args:        []ArgSpec{{"radius", "int", false, "5", "box radius"}},
		Usage:       "blur [radius]",
		Description: "Box blur.",
	},
	{
		Name: "gaussian",
		Args: []ArgSpec{
			{"radius", "int", false, "5", "kernel radius"},
			{"sigma", "float", false, "3", "gaussian sigma"},
		},
		Usage:       "gaussian [radius] [sigma]",
		Description: "Gaussian blur.",
	},
	{Name: "sharpen", Usage: "sharpen", Description: "4-neighbor sharpening kernel."},
	{Name: "sharpenMore", Usage: "sharpenMore", Description: "8-neighbor sharpening kernel."},
	{Name: "sobel", Usage: "sobel", Description: "Sobel gradient magnitude."},
	{Name: "sobelX", Usage: "sobelX", Description: "Single Sobel X convolution."},
	{Name: "sobelY", Usage: "sobelY", Description: "Single Sobel Y convolution."},
	{Name: "prewitt", Usage: "prewitt", Description: "Prewitt gradient magnitude."},
	{Name: "prewittX", Usage: "prewittX", Description: "Single Prewitt X convolution."},
	{Name: "prewittY", Usage: "prewittY", Description: "Single Prewitt Y convolution."},
	{Name: "dilate", Args: []ArgSpec{shapeArg}, Usage: "dilate [shape]", Description: "Morphological dilation."},
	{Name: "erode", Args: []ArgSpec{shapeArg}, Usage: "erode [shape]", Description: "Morphological erosion."},
	{Name: "open", Args: []ArgSpec{shapeArg}, Usage: "open [shape]", Description: "Erosion then dilation."},
	{Name: "close", Args: []ArgSpec{shapeArg}, Usage: "close [shape]", Description: "Dilation then erosion."},
	{Name: "morphGradient", Args: []ArgSpec{shapeArg}, Usage: "morphGradient [shape]", Description: "Dilation minus erosion."},
}

// Lookup finds a command by case-insensitive name. Unknown names return an
// *UnknownCommandError with the nearest registered name as a suggestion.
func Lookup(name string) (CommandSpec, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, c := range Commands {
		if strings.ToLower(c.Name) == lower {
			return c, nil
		}
	}
	return CommandSpec{}, &UnknownCommandError{Name: name, Suggestion: suggest(lower)}
}

// suggest returns the closest command name, or "" if nothing is close enough.
func suggest(name string) string {
	if name == "" {
		return ""
	}
	best, bestDist := "", -1
	for _, c := range Commands {
		d := levenshtein.DistanceForStrings([]rune(name), []rune(strings.ToLower(c.Name)), levenshtein.DefaultOptions)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c.Name, d
		}
	}
	limit := len(name) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist > limit {
		return ""
	}
	return best
}
