package web

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// uploadForm is the non-file part of a preview or execute request.
type uploadForm struct {
	SchoolID string `form:"school_id" validate:"required,max=64"`
	FileName string `form:"file" validate:"required,max=255"`
}

// FormError lists every invalid form field.
type FormError struct {
	Messages []string
}

func (e *FormError) Error() string {
	return strings.Join(e.Messages, "; ")
}

type formValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newFormValidator() *formValidator {
	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("form")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}

	return &formValidator{validate: validate, trans: trans}
}

// Struct validates obj and returns a *FormError naming each failing field in
// declaration order.
func (v *formValidator) Struct(obj any) error {
	err := v.validate.Struct(obj)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := &FormError{}
	for _, e := range verrs {
		fe.Messages = append(fe.Messages, e.Translate(v.trans))
	}
	return fe
}
