package event

import (
	"reflect"
	"strings"
)

type DefaultFieldExtractor struct{}

// ExtractFields returns the json-named values of obj. An empty fields list
// selects every field.
func (e *DefaultFieldExtractor) ExtractFields(obj interface{}, fields []string) map[string]interface{} {
	result := make(map[string]interface{})
	if obj == nil {
		return result
	}

	val := reflect.ValueOf(obj)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return result
	}
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		jsonTag := field.Tag.Get("json")
		if jsonTag == "" {
			jsonTag = strings.ToLower(field.Name)
		}
		jsonTag = strings.Split(jsonTag, ",")[0]

		if len(fields) == 0 || contains(fields, jsonTag) {
			result[jsonTag] = val.Field(i).Interface()
		}
	}
	return result
}

// ExtractChanges compares two values of the same type field by field.
func (e *DefaultFieldExtractor) ExtractChanges(old, new interface{}, fields []string) map[string]Change {
	changes := make(map[string]Change)
	if old == nil || new == nil {
		return changes
	}

	oldFields := e.ExtractFields(old, fields)
	newFields := e.ExtractFields(new, fields)

	for field, newValue := range newFields {
		if oldValue, exists := oldFields[field]; exists {
			if !reflect.DeepEqual(oldValue, newValue) {
				changes[field] = Change{Old: oldValue, New: newValue}
			}
		}
	}
	return changes
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
