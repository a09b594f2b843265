package handler

import (
	"reflect"
	"strings"
)

// sanitize trims whitespace from string fields of a request body, descending
// into nested structs and non-nil struct pointers. Document texts are left
// untouched.
func sanitize(v any) {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return
	}
	trimStruct(val.Elem())
}

func trimStruct(val reflect.Value) {
	if val.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}
		switch field.Kind() {
		case reflect.String:
			field.SetString(strings.TrimSpace(field.String()))
		case reflect.Struct:
			trimStruct(field)
		case reflect.Ptr:
			if field.IsNil() {
				continue
			}
			switch field.Elem().Kind() {
			case reflect.String:
				field.Elem().SetString(strings.TrimSpace(field.Elem().String()))
			case reflect.Struct:
				trimStruct(field.Elem())
			}
		}
	}
}
