// Package nilcheck detects nil values hidden behind non-nil interfaces.
package nilcheck

import "reflect"

// Interface reports whether value is nil or an interface holding a nil
// pointer, map, slice, channel or func. Option setters use it so a typed-nil
// logger or provider never replaces a working default.
func Interface(value any) bool {
	if value == nil {
		return true
	}

	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}

	return false
}
