package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

// Validator provides validation functionality
type Validator interface {
	// Validate checks obj against its validate tags. Failures are returned as
	// a validation AppError keyed by json field name.
	Validate(obj interface{}) error
}

// Messages maps a validate tag to a message template. %s is replaced by the
// field's label tag (or its json name when no label is set).
type Messages map[string]string

func DefaultMessages() Messages {
	return Messages{
		"required": "%s is required.",
		"email":    "%s must be a valid email address.",
		"datetime": "%s must be a date in YYYY-MM-DD format.",
		"oneof":    "%s is not a recognised value.",
	}
}

type validate struct {
	engine   *validator.Validate
	messages Messages
}

func New() Validator {
	return NewWithMessages(DefaultMessages())
}

func NewWithMessages(messages Messages) Validator {
	engine := validator.New()
	engine.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &validate{engine: engine, messages: messages}
}

func (v *validate) Validate(obj interface{}) error {
	err := v.engine.Struct(obj)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.BadRequest("invalid input", err)
	}

	typ := reflect.TypeOf(obj)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = v.message(typ, fe)
	}
	return apperrors.Validation(fields)
}

func (v *validate) message(typ reflect.Type, fe validator.FieldError) string {
	label := fe.Field()
	if sf, ok := typ.FieldByName(fe.StructField()); ok {
		if l := sf.Tag.Get("label"); l != "" {
			label = l
		}
	}
	if tmpl, ok := v.messages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, label)
	}
	return fmt.Sprintf("%s failed the %q check.", label, fe.Tag())
}
