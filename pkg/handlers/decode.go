package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// ErrInvalidBody indicates a request body that is not valid JSON for the
	// target type.
	ErrInvalidBody = errors.New("invalid request body")
	// ErrInvalidRequest indicates a decoded body that failed validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrBodyTooLarge indicates a body exceeding the configured limit.
	ErrBodyTooLarge = errors.New("request body too large")
)

var (
	validatorOnce sync.Once
	validate      *validator.Validate
	translator    ut.Translator
)

func initValidator() {
	locale := en.New()
	uni := ut.New(locale, locale)
	translator, _ = uni.GetTranslator("en")

	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = en_translations.RegisterDefaultTranslations(validate, translator)
}

// Validate checks v against its `validate` struct tags. Slices and arrays
// are validated element by element; other kinds pass. Field names in the
// returned error use json tag names.
func Validate(v any) error {
	validatorOnce.Do(initValidator)

	var err error
	switch reflect.Indirect(reflect.ValueOf(v)).Kind() {
	case reflect.Struct:
		err = validate.Struct(v)
	case reflect.Slice, reflect.Array:
		err = validate.Var(v, "dive")
	default:
		return nil
	}
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		msgs := make([]string, len(fieldErrs))
		for i, fe := range fieldErrs {
			msgs[i] = fe.Translate(translator)
		}
		return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
}

// DecodeJSON reads a single JSON value from the request body into T and
// validates it. maxBytes bounds the body when positive; unknown fields are
// rejected.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, maxBytes int64) (T, error) {
	var dst T

	body := io.Reader(r.Body)
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return dst, fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}
		if errors.Is(err, io.EOF) {
			return dst, fmt.Errorf("%w: empty body", ErrInvalidBody)
		}
		return dst, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	if dec.More() {
		return dst, fmt.Errorf("%w: unexpected trailing data", ErrInvalidBody)
	}

	if err := Validate(dst); err != nil {
		return dst, err
	}
	return dst, nil
}

// MapHTTPStatus maps decode errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrBodyTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
