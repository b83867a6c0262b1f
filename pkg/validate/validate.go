// Package validate provides struct-tag validation for request bodies.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required            field must not be zero/empty
//	nullable            if empty, skip all remaining rules for this field
//	email               valid email address
//	integer             whole number
//	numeric             any number
//	min=N               string: min char length | number: min value
//	max=N               string: max char length | number: max value
//	gte=N               number >= N
//	lte=N               number <= N
//	between=min,max     number or string length between min and max (inclusive)
//	in=a,b,c            value must be one of the listed items
//
// Example:
//
//	type CreateProduct struct {
//	    Name     string `json:"name"     validate:"required,min=1,max=255"`
//	    Quantity int    `json:"quantity" validate:"gte=0"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var emailRE = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		value := rv.Field(i)

		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := jsonFieldName(field)
		rules := splitRules(tag)

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			rule = strings.TrimSpace(rule)
			if rule == "" || rule == "nullable" {
				continue
			}
			if msg := applyRule(rule, name, value); msg != "" {
				errs[name] = msg
				break // first failing rule per field
			}
		}
	}
	return errs
}

// HasErrors reports whether the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func applyRule(rule, field string, v reflect.Value) string {
	raw := fmt.Sprintf("%v", v.Interface())
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}

	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}

	case "integer":
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return fmt.Sprintf("The %s must be an integer.", field)
		}

	case "numeric":
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Sprintf("The %s must be a number.", field)
		}

	case "min":
		n, _ := strconv.ParseFloat(param, 64)
		if isString(v) {
			if float64(len(raw)) < n {
				return fmt.Sprintf("The %s must be at least %s characters.", field, param)
			}
		} else if num, ok := asFloat(v); ok && num < n {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}

	case "max":
		n, _ := strconv.ParseFloat(param, 64)
		if isString(v) {
			if float64(len(raw)) > n {
				return fmt.Sprintf("The %s may not be greater than %s characters.", field, param)
			}
		} else if num, ok := asFloat(v); ok && num > n {
			return fmt.Sprintf("The %s may not be greater than %s.", field, param)
		}

	case "gte":
		n, _ := strconv.ParseFloat(param, 64)
		if num, ok := asFloat(v); ok && num < n {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}

	case "lte":
		n, _ := strconv.ParseFloat(param, 64)
		if num, ok := asFloat(v); ok && num > n {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}

	case "between":
		lo, hi, ok := strings.Cut(param, ",")
		if !ok {
			return ""
		}
		loN, _ := strconv.ParseFloat(lo, 64)
		hiN, _ := strconv.ParseFloat(hi, 64)
		var num float64
		if isString(v) {
			num = float64(len(raw))
		} else if n, ok := asFloat(v); ok {
			num = n
		}
		if num < loN || num > hiN {
			return fmt.Sprintf("The %s must be between %s and %s.", field, lo, hi)
		}

	case "in":
		for _, item := range strings.Split(param, ",") {
			if raw == item {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	}

	return ""
}

func jsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

// splitRules splits the validate tag by comma while keeping multi-value
// params (in=, between=) intact.
func splitRules(tag string) []string {
	var rules []string
	var current strings.Builder
	inParam := false

	for i := 0; i < len(tag); i++ {
		ch := tag[i]
		if ch == ',' {
			if inParam && !looksLikeNewRule(tag[i+1:]) {
				// Comma is part of the param value (e.g. in=a,b,c).
				current.WriteByte(ch)
				continue
			}
			rules = append(rules, current.String())
			current.Reset()
			inParam = false
			continue
		}

		current.WriteByte(ch)
		if !inParam {
			for _, pfx := range []string{"in=", "between="} {
				if strings.HasSuffix(current.String(), pfx) {
					inParam = true
					break
				}
			}
		}
	}
	if current.Len() > 0 {
		rules = append(rules, current.String())
	}
	return rules
}

// looksLikeNewRule reports whether s starts with a known rule keyword,
// meaning the comma before it ended the previous rule.
func looksLikeNewRule(s string) bool {
	known := []string{
		"required", "nullable", "email", "integer", "numeric",
		"min=", "max=", "gte=", "lte=", "in=", "between=",
	}
	for _, k := range known {
		if strings.HasPrefix(s, k) {
			return true
		}
	}
	return false
}

func hasRule(rules []string, want string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == want {
			return true
		}
	}
	return false
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}

func isString(v reflect.Value) bool { return v.Kind() == reflect.String }

func asFloat(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}
