package handlers

import "strconv"

// formatPercent renders a gauge value the way the numeral shows it: whole
// numbers without decimals, otherwise one decimal place.
func formatPercent(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10) + "%"
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}
