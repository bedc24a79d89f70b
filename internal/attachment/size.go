package attachment

import "fmt"

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize renders a byte count using the largest unit (up to GB) whose
// scaled value is at least one, with two decimals.
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	unit := 0
	scaled := float64(bytes)
	for scaled >= 1024 && unit < len(sizeUnits)-1 {
		scaled /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", scaled, sizeUnits[unit])
}
