package validation

import "strings"

// Violations maps a JSON field name to a violation code such as "required".
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Merge copies other into v without overwriting existing entries.
func (v Violations) Merge(other Violations) {
	for k, code := range other {
		if _, ok := v[k]; !ok {
			v[k] = code
		}
	}
}

// Messages renders every code through translate, e.g. i18n.T bound to a language.
func (v Violations) Messages(translate func(code string) string) map[string]string {
	out := make(map[string]string, len(v))
	for field, code := range v {
		out[field] = translate(code)
	}
	return out
}

// Required flags a blank value. Struct tags cover everything else; this is for
// rules that depend on the form mode, such as a password on create only.
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}
