package assert

// NotNil panics when value is nil, it guards constructor arguments that are
// required but cannot be expressed in the type.
func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
}
