package screen

import (
	"fmt"
	"math"
)

// maxSeconds caps the label so very large or infinite inputs cannot
// overflow the minutes field.
const maxSeconds = math.MaxInt32

// FormatTime renders seconds as MM:SS:CC. Minutes grow past two digits,
// seconds wrap at 60 and CC is the truncated hundredth of a second.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || seconds <= 0 {
		return "00:00:00"
	}
	if seconds > maxSeconds {
		seconds = maxSeconds
	}
	minutes := int64(seconds / 60)
	secs := int64(math.Mod(seconds, 60))
	// The epsilon keeps values such as 0.29 from truncating to 28.
	hundredths := min(int64(math.Mod(seconds, 1)*100+1e-7), 99)
	return fmt.Sprintf("%02d:%02d:%02d", minutes, secs, hundredths)
}
