package output

import (
	"fmt"
	"io"
	"os"
)

// ColorMode is the value of the --color flag.
type ColorMode string

// Accepted --color values.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color value. Empty means auto.
func ParseColorMode(value string) (ColorMode, error) {
	switch mode := ColorMode(value); mode {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	default:
		return "", NewUserError(fmt.Sprintf("--color must be auto, always or never (got %q)", value))
	}
}

// ResolveColorMode determines whether styles should be applied:
// never disables, always enables, auto follows isTTY.
func ResolveColorMode(mode ColorMode, isTTY bool) bool {
	switch mode {
	case ColorNever:
		return false
	case ColorAlways:
		return true
	default:
		return isTTY
	}
}

// IsTTY checks if a writer is a terminal.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
