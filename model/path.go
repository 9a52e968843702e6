package model

import (
	"fmt"
	"reflect"
	"strings"
)

// PathSeparator splits nested parameter paths, e.g. "perDiemCosts.l2".
const PathSeparator = "."

// Value resolves a possibly nested parameter path and returns the float64 it
// names. Path segments match either the json tag or the Go field name,
// case-insensitively, so "perDiemCosts.L2" and "perdiemcosts.l2" both work.
func (p *Parameters) Value(path string) (float64, error) {
	fv, err := p.resolve(path)
	if err != nil {
		return 0, err
	}
	return fv.Float(), nil
}

// SetValue writes v into the float64 named by path. Adding a new nested field
// to the record requires no changes here or in any sweep driver.
func (p *Parameters) SetValue(path string, v float64) error {
	fv, err := p.resolve(path)
	if err != nil {
		return err
	}
	fv.SetFloat(v)
	return nil
}

func (p *Parameters) resolve(path string) (reflect.Value, error) {
	if path == "" {
		return reflect.Value{}, fmt.Errorf("empty parameter path")
	}
	cur := reflect.ValueOf(p).Elem()
	segments := strings.Split(path, PathSeparator)
	for i, seg := range segments {
		if cur.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("parameter path %q: %q is not a sub-record", path, strings.Join(segments[:i], PathSeparator))
		}
		field, ok := fieldByPathSegment(cur, seg)
		if !ok {
			return reflect.Value{}, fmt.Errorf("parameter path %q: unknown field %q", path, seg)
		}
		cur = field
	}
	if cur.Kind() != reflect.Float64 {
		return reflect.Value{}, fmt.Errorf("parameter path %q: not a numeric field", path)
	}
	return cur, nil
}

func fieldByPathSegment(structVal reflect.Value, seg string) (reflect.Value, bool) {
	t := structVal.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := strings.Split(f.Tag.Get("json"), ",")[0]
		if strings.EqualFold(tag, seg) || strings.EqualFold(f.Name, seg) {
			return structVal.Field(i), true
		}
	}
	return reflect.Value{}, false
}
