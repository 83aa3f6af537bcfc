// internal/app/system/contentsync/merge.go
package contentsync

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
	"strings"

	"github.com/advocatechambers/lawsite/internal/domain/models"
)

// shallowCopy returns a new pointer to a copy of the struct v points to.
// Slices and nested values are shared with v.
func shallowCopy(v any) any {
	src := reflect.ValueOf(v).Elem()
	dst := reflect.New(src.Type())
	dst.Elem().Set(src)
	return dst.Interface()
}

// jsonFields maps the JSON name of each exported field of t to its index.
func jsonFields(t reflect.Type) map[string]int {
	out := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag := f.Tag.Get("json"); tag != "" {
			if tag == "-" {
				continue
			}
			if n, _, _ := strings.Cut(tag, ","); n != "" {
				name = n
			}
		}
		out[name] = i
	}
	return out
}

// applyPatch replaces the fields of dst named by patch keys. Each value is
// decoded into a fresh value of the field's type, so lists and nested
// objects are replaced whole.
func applyPatch(sec models.Section, dst any, patch map[string]json.RawMessage) error {
	v := reflect.ValueOf(dst).Elem()
	fields := jsonFields(v.Type())

	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		idx, ok := fields[key]
		if !ok {
			return &ValidationError{Section: sec, Field: key, Message: "unknown field"}
		}
		fv := reflect.New(v.Field(idx).Type())
		dec := json.NewDecoder(bytes.NewReader(patch[key]))
		dec.DisallowUnknownFields()
		if err := dec.Decode(fv.Interface()); err != nil {
			return &ValidationError{Section: sec, Field: key, Message: "invalid value: " + err.Error()}
		}
		v.Field(idx).Set(fv.Elem())
	}
	return nil
}
