package cohort

// SetSeasonHook replaces the per-season hook and returns a restore func.
func SetSeasonHook(f func(string)) func() {
	prev := seasonHook
	seasonHook = f
	return func() { seasonHook = prev }
}
