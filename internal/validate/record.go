package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	structValidator *validator.Validate
	structOnce      sync.Once
)

func recordValidator() *validator.Validate {
	structOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		if err := v.RegisterValidation("nip", func(fl validator.FieldLevel) bool {
			return NIP(fl.Field().String()).OK()
		}); err != nil {
			panic(err)
		}
		structValidator = v
	})
	return structValidator
}

// Record checks the struct tags of a model record before it is stored.
func Record(v any) FieldErrors {
	err := recordValidator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{{Field: "record", Kind: KindFormat, Message: err.Error()}}
	}

	out := make(FieldErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Kind:    tagKind(fe.Tag()),
			Message: tagMessage(fe),
		})
	}
	return out
}

func tagKind(tag string) ErrorKind {
	switch tag {
	case "required":
		return KindRequired
	case "nip":
		return KindChecksum
	case "min", "max", "gt", "gte", "lt", "lte":
		return KindOutOfRange
	default:
		return KindFormat
	}
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Pole jest wymagane"
	case "nip":
		return "Nieprawidłowy NIP"
	case "email":
		return "Nieprawidłowy format email"
	case "min", "gte":
		return "Wartość musi wynosić co najmniej " + fe.Param()
	case "gt":
		return "Wartość musi być większa od " + fe.Param()
	case "max", "lte":
		return "Wartość nie może przekraczać " + fe.Param()
	default:
		return "Nieprawidłowa wartość (" + fe.Tag() + ")"
	}
}
