package history

// SetEntityHook replaces the per-entity hook and returns a restore func.
func SetEntityHook(f func(int64)) func() {
	prev := entityHook
	entityHook = f
	return func() { entityHook = prev }
}
