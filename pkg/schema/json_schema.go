package schema

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
)

// ToJSONSchema converts a struct to a JSON schema
func ToJSONSchema[T any](t T) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(t)

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}

// SecretFields returns the json names of struct fields tagged `secret:"true"`.
// Callers use it to redact sensitive configuration values before display.
func SecretFields[T any](t T) []string {
	var fields []string

	typ := reflect.TypeOf(t)
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	if typ.Kind() != reflect.Struct {
		return fields
	}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.Tag.Get("secret") != "true" {
			continue
		}

		name := field.Tag.Get("json")
		if name == "" {
			name = field.Name
		}

		fields = append(fields, name)
	}

	return fields
}
