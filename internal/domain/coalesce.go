package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// CoalesceInt returns the first non-zero int from vals, or the fallback.
func CoalesceInt(fallback int, vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return fallback
}

// CoalesceFloat returns the first non-zero float from vals, or the fallback.
func CoalesceFloat(fallback float64, vals ...float64) float64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return fallback
}
