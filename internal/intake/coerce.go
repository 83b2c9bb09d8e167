package intake

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var truthyWords = map[string]struct{}{
	"1":    {},
	"true": {},
	"yes":  {},
	"on":   {},
}

// ParseFloat coerces text to a finite float. Blank, non-numeric, NaN and
// infinite values yield nil.
func ParseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Float coerces a decoded YAML/JSON scalar to a finite float.
// Booleans are not numbers here.
func Float(v any) *float64 {
	switch x := v.(type) {
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		f := float64(x)
		return &f
	case int64:
		f := float64(x)
		return &f
	case uint64:
		f := float64(x)
		return &f
	case string:
		return ParseFloat(x)
	default:
		return nil
	}
}

// Truthy reports whether v is a native true, the integer 1, or a string
// spelling one of 1, true, yes, on (case-insensitive). Anything else,
// including floats, is false.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return truthyText(x)
	case int:
		return x == 1
	case int64:
		return x == 1
	default:
		return false
	}
}

func truthyText(s string) bool {
	_, ok := truthyWords[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// jsonFloat coerces a JSON value to a finite float.
func jsonFloat(r gjson.Result) *float64 {
	switch r.Type {
	case gjson.Number:
		return finite(r.Num)
	case gjson.String:
		return ParseFloat(r.Str)
	default:
		return nil
	}
}

// jsonFloatOr returns the coerced value or def.
func jsonFloatOr(r gjson.Result, def float64) float64 {
	if f := jsonFloat(r); f != nil {
		return *f
	}
	return def
}

// jsonInt coerces a JSON value to an int, truncating numbers. Strings must
// hold an integer literal.
func jsonInt(r gjson.Result, def int) int {
	switch r.Type {
	case gjson.Number:
		if math.IsNaN(r.Num) || math.IsInf(r.Num, 0) {
			return def
		}
		return int(r.Num)
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(r.Str))
		if err != nil {
			return def
		}
		return n
	default:
		return def
	}
}

// jsonTruthy applies Truthy semantics to a JSON value. Numbers are judged by
// their literal text, so 1 is true and 1.0 is not.
func jsonTruthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.String:
		return truthyText(r.Str)
	case gjson.Number:
		return truthyText(r.Raw)
	default:
		return false
	}
}

// jsonString returns the text of a scalar JSON value; null, objects and
// arrays yield "".
func jsonString(r gjson.Result) string {
	switch r.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return r.String()
	default:
		return ""
	}
}

// present reports whether key exists with a non-null value.
func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
