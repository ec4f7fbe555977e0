package model

import (
	"fmt"
	"reflect"
	"strings"

	json "github.com/goccy/go-json"
)

// MissingFieldError reports a required field that was absent or null.
type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Path)
}

var envelopeType = reflect.TypeOf(UserListEnvelope{})

// DecodeUserList decodes a users payload. Every field is required: an absent, null or mistyped
// field fails the whole decode and the zero envelope is returned. Unknown fields are ignored.
func DecodeUserList(data []byte) (UserListEnvelope, error) {
	var env UserListEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return UserListEnvelope{}, err
	}

	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return UserListEnvelope{}, err
	}
	if err := requireFields(tree, envelopeType, ""); err != nil {
		return UserListEnvelope{}, err
	}
	if env.Users == nil {
		env.Users = []User{}
	}
	return env, nil
}

// requireFields walks the generic JSON tree alongside t and checks every tagged field is present.
// Type mismatches are left to the typed decode.
func requireFields(v any, t reflect.Type, path string) error {
	switch t.Kind() {
	case reflect.Struct:
		obj, ok := v.(map[string]any)
		if !ok {
			return &MissingFieldError{Path: rootPath(path)}
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := jsonName(f)
			if name == "" {
				continue
			}
			p := name
			if path != "" {
				p = path + "." + name
			}
			child, ok := obj[name]
			if !ok || child == nil {
				return &MissingFieldError{Path: p}
			}
			if err := requireFields(child, f.Type, p); err != nil {
				return err
			}
		}
	case reflect.Slice:
		arr, ok := v.([]any)
		if !ok {
			return &MissingFieldError{Path: rootPath(path)}
		}
		for i, elem := range arr {
			if err := requireFields(elem, t.Elem(), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" || !f.IsExported() {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return f.Name
}

func rootPath(p string) string {
	if p == "" {
		return "$"
	}
	return p
}
