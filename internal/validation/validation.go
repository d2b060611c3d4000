package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/lokal-dev/lokal/internal/validation/files"
)

var customValidators = map[string]validator.Func{
	"path_read":         files.HasReadAccessToPath,
	"permission_policy": isPermissionPolicy,
	"project_dir":       isProjectDir,
	"symlink_policy":    isSymlinkPolicy,
	"template_id":       isTemplateID,
	"yaml":              files.IsValidYAML,
}

var customTranslations = map[string]string{
	"dir":               "{0} must be a valid existing directory: {1}",
	"file":              "{0} must be a valid existing file: {1}",
	"path_read":         "{0} must have read access to path: {1}",
	"permission_policy": "{0} must be one of error, skip: {1}",
	"project_dir":       "{0} must be a directory path ending in a valid name: {1}",
	"symlink_policy":    "{0} must be one of follow, skip, error: {1}",
	"template_id":       "{0} must be a template id or a library template name: {1}",
	"yaml":              "{0} must be a valid YAML file: {1}",
}

type ValidationError struct {
	Field  string
	Detail string
}

type ValidationErrors []ValidationError

func NewValidationError(key, detail string) error {
	return &ValidationError{Field: key, Detail: detail}
}

func (e *ValidationError) Error() string {
	return e.Detail
}

func (ve ValidationErrors) Error() string {
	var b strings.Builder
	b.WriteString("validation error\n")
	for _, err := range ve {
		b.WriteString(err.Detail)
		b.WriteString("\n")
	}
	return b.String()
}

// Validator wraps a validator instance and an English translator.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// NewValidator creates a Validator with the lokal tags and their messages
// registered. Struct fields may carry a `cli` tag naming the flag the value
// came from; messages then refer to the flag.
func NewValidator() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("cli"); name != "" {
			return name
		}
		return fld.Name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, found := uni.GetTranslator("en")
	if !found {
		return nil, errors.New("translator not found")
	}

	if err := registerDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	for name, fn := range customValidators {
		if err := validate.RegisterValidation(name, fn); err != nil {
			return nil, fmt.Errorf("failed to register validator %s: %w", name, err)
		}
	}

	return &Validator{validate: validate, trans: trans}, nil
}

// RegisterCustomTranslation replaces the message of tag.
func (v *Validator) RegisterCustomTranslation(tag, msg string) error {
	return registerTranslation(v.validate, v.trans, tag, msg)
}

// Struct validates s. Failures are returned as one error listing every
// translated message; the validator.ValidationErrors stay reachable with
// errors.As.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		var msg strings.Builder
		for _, e := range verrs {
			msg.WriteString(e.Translate(v.trans))
			msg.WriteString("\n")
		}
		return fmt.Errorf("validation error:\n%s: %w", msg.String(), verrs)
	}
	return err
}

// Var validates a single value against tag.
func (v *Validator) Var(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

func (v *Validator) Validate() *validator.Validate {
	return v.validate
}

func (v *Validator) Translator() ut.Translator {
	return v.trans
}

// ParseValidationErrors flattens err into field/message pairs.
func (v *Validator) ParseValidationErrors(err error) ValidationErrors {
	ves := ValidationErrors{}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			ves = append(ves, ValidationError{
				Field:  verr.StructNamespace(),
				Detail: verr.Translate(v.trans),
			})
		}
	}
	return ves
}

func registerDefaultTranslations(v *validator.Validate, trans ut.Translator) error {
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return fmt.Errorf("failed to register default translations: %w", err)
	}
	for tag, message := range customTranslations {
		if err := registerTranslation(v, trans, tag, message); err != nil {
			return fmt.Errorf("failed to register custom translation for %s: %w", tag, err)
		}
	}
	return nil
}

func registerTranslation(v *validator.Validate, trans ut.Translator, tag, message string) error {
	return v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field(), fmt.Sprintf("%v", fe.Value()))
			return t
		},
	)
}
