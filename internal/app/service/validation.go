package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/shopspring/decimal"
)

// ValidationError carries field keyed messages. Nothing is written when one is returned.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// Err returns nil when no field failed.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// Presence records which JSON keys a request body carried.
type Presence map[string]bool

// PresenceOf collects the top level keys of a decoded JSON object.
func PresenceOf(raw map[string]json.RawMessage) Presence {
	p := make(Presence, len(raw))
	for k := range raw {
		p[k] = true
	}
	return p
}

func (p Presence) Has(key string) bool {
	return p[key]
}

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

const (
	slugMessage     = `Enter a valid "slug" consisting of letters, numbers, underscores or hyphens.`
	slugUUIDMessage = "Slug cannot have the form of an identifier."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	custom := map[string]validator.Func{
		"slug": func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		},
		// UUID shaped tokens always resolve as ids, so such a slug could never be looked up.
		"notuuid": func(fl validator.FieldLevel) bool {
			return !repository.LooksLikeUUID(fl.Field().String())
		},
		"notblank": validators.NotBlank,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validator: %v", tag, err))
		}
	}
	return v
}

// checkStruct runs struct tags and translates failures through messages,
// keyed "field.tag". With partial set, only fields in present are reported.
func checkStruct(s interface{}, messages map[string]string, partial bool, present Presence, verr *ValidationError) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("non_field_errors", "Invalid input.")
		return
	}
	for _, fe := range fieldErrs {
		field := fe.Field()
		if partial && !present.Has(field) {
			continue
		}
		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg = "Invalid value."
		}
		verr.Add(field, msg)
	}
}

var (
	maxPrice   = decimal.RequireFromString("999999.99")
	priceScale = int32(2)
)

// checkPrice validates a money amount. label is the human field name, e.g. "Price".
func checkPrice(field, label string, value *decimal.Decimal, required bool, verr *ValidationError) {
	if value == nil {
		if required {
			verr.Add(field, label+" is required.")
		}
		return
	}
	switch {
	case !value.IsPositive():
		verr.Add(field, label+" must be greater than zero.")
	case value.GreaterThan(maxPrice):
		verr.Add(field, label+" cannot exceed 999,999.99.")
	case !value.Equal(value.Round(priceScale)):
		verr.Add(field, label+" can have maximum 2 decimal places.")
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
