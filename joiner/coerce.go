package joiner

import (
	"math"
	"strconv"
	"strings"
)

// parseSeconds reads a duration cell as seconds. Plain numbers and clock
// forms (H:MM:SS, MM:SS) are accepted. Blank cells are 0 without complaint;
// anything else that fails, negatives included, is 0 with ok=false.
func parseSeconds(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return 0, false
		}
		return v, true
	}
	if strings.Contains(raw, ":") {
		return parseClock(raw)
	}
	return 0, false
}

func parseClock(raw string) (float64, bool) {
	parts := strings.Split(raw, ":")
	if len(parts) > 3 {
		return 0, false
	}
	total := 0.0
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v < 0 {
			return 0, false
		}
		total = total*60 + v
	}
	return total, true
}
