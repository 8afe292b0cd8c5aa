// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"fmt"
	"strconv"
)

// FormatID converts a record identifier of any scalar type into its
// plain string form.  Floating-point identifiers are never written in
// exponent form.  The result is not escaped; URI template expansion
// does that.  Returns false if id is nil or not a scalar.
func FormatID(id interface{}) (string, bool) {
	switch v := id.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		return string(v), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case fmt.Stringer:
		return v.String(), true
	}
	return "", false
}
