package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is matched by every *Error returned from Struct.
var ErrValidation = errors.New("validation failed")

// MessagesTag holds per-rule messages, e.g. `messages:"required:Email is required|email:Invalid email format"`.
const MessagesTag = "messages"

var (
	nikPattern   = regexp.MustCompile(`^\d{16}$`)
	phonePattern = regexp.MustCompile(`^\d{10,13}$`)
	clockPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// Error lists the failed fields, keyed by their JSON name.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *Error) Is(target error) bool {
	return target == ErrValidation
}

// Validity is implemented by enum-like types checked with the "valid" rule.
type Validity interface {
	Valid() bool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "nik", func(fl validator.FieldLevel) bool {
		return nikPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "clock", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if !clockPattern.MatchString(value) {
			return false
		}
		_, err := time.Parse("15:04", value)
		return err == nil
	})
	mustRegister(v, "valid", func(fl validator.FieldLevel) bool {
		if vv, ok := fl.Field().Interface().(Validity); ok {
			return vv.Valid()
		}
		return false
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("failed to register %q validation: %s", tag, err))
	}
}

// Struct validates s and returns an *Error describing every failed field.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validation error: %w", err)
	}

	structType := reflect.TypeOf(s)
	for structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		key := fieldPath(fe)
		if _, exists := fields[key]; exists {
			continue
		}
		fields[key] = message(structType, fe)
	}

	return &Error{Fields: fields}
}

// fieldPath drops the root struct name from the namespace, e.g. "RegisterDTO.email" becomes "email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i != -1 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(root reflect.Type, fe validator.FieldError) string {
	if f, ok := lookupField(root, fe.StructNamespace()); ok {
		for _, rule := range strings.Split(f.Tag.Get(MessagesTag), "|") {
			tag, msg, found := strings.Cut(rule, ":")
			if found && strings.TrimSpace(tag) == fe.Tag() {
				return strings.TrimSpace(msg)
			}
		}
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email format"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// lookupField resolves a struct namespace such as "UpdateSchedulesDTO.Schedules[0].DayOfWeek".
func lookupField(root reflect.Type, namespace string) (reflect.StructField, bool) {
	parts := strings.Split(namespace, ".")
	if len(parts) < 2 {
		return reflect.StructField{}, false
	}

	t := root
	var field reflect.StructField
	for _, part := range parts[1:] {
		if i := strings.Index(part, "["); i != -1 {
			part = part[:i]
		}
		for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return reflect.StructField{}, false
		}
		f, ok := t.FieldByName(part)
		if !ok {
			return reflect.StructField{}, false
		}
		field = f
		t = f.Type
	}
	return field, true
}
