// Package pagehook implements the per-page HTML injections used by the
// documentation build: the review meta tag and the multi-hub launch buttons.
//
// Both hooks operate on a Context, the page rendering context owned by the
// documentation framework. Button lists inside it are []any whose elements
// are map[string]any.
package pagehook

import (
	"fmt"
	"reflect"
)

// Context is the mutable rendering context of a single page.
type Context map[string]any

// stringValue converts a metadata value to a review id. Missing values and
// falsy ones (false, numeric zero, empty strings, lists and maps) yield "".
func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
		return "True"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() == 0 {
			return ""
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() == 0 {
			return ""
		}
	case reflect.Float32, reflect.Float64:
		if rv.Float() == 0 {
			return ""
		}
	case reflect.Slice, reflect.Map:
		if rv.Len() == 0 {
			return ""
		}
	}
	return fmt.Sprint(v)
}
