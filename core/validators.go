package core

import (
	"reflect"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	fr_translations "github.com/go-playground/validator/v10/translations/fr"
)

// DateLayout is the ISO layout of calendar dates exchanged with the API and forms.
const DateLayout = "2006-01-02"

var (
	// custom validation tags & texts, per locale
	notBlankTag = "notblank"
	isoDateTag  = "isodate"

	customTexts = map[string]map[string]string{
		LocaleFR: {
			"required":  "ce champ est obligatoire",
			notBlankTag: "ce champ ne peut pas être vide",
			isoDateTag:  "date invalide (AAAA-MM-JJ)",
		},
		LocaleAR: {
			"required":  "هذا الحقل إلزامي",
			notBlankTag: "لا يمكن أن يكون هذا الحقل فارغًا",
			isoDateTag:  "تاريخ غير صالح (YYYY-MM-DD)",
			"email":     "يجب أن يكون بريدًا إلكترونيًا صالحًا",
			"min":       "{0} يجب أن يحتوي على {1} حرفًا على الأقل",
			"max":       "{0} يجب ألا يتجاوز {1} حرفًا",
			"oneof":     "{0} يجب أن يكون واحدًا من [{1}]",
			"eqfield":   "{0} يجب أن يساوي {1}",
			"gte":       "{0} يجب أن يكون {1} أو أكثر",
			"gtefield":  "{0} يجب أن يكون أكبر من أو يساوي {1}",
		},
	}
)

// InitValidators instantiates the validator for use with every supported locale.
func InitValidators(validate *validator.Validate, uni *ut.UniversalTranslator) {
	if frTrans, ok := uni.GetTranslator(LocaleFR); ok {
		_ = fr_translations.RegisterDefaultTranslations(validate, frTrans)
	}

	// Use form (then JSON) tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	// register custom validators
	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = validate.RegisterValidation(isoDateTag, isoDateValidation)

	for locale, texts := range customTexts {
		trans, found := uni.GetTranslator(locale)
		if !found {
			continue
		}
		for tag, text := range texts {
			RegisterCustomTranslation(validate, trans, tag, text, true)
		}
	}
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
// The text may reference the field name as {0} and the tag parameter as {1}; {1} requires {0}.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field(), fe.Param())
			return s
		},
	)
}

// TranslateErrors converts validator errors to a ValidationError with translated field messages.
// Any other error is returned untouched.
func TranslateErrors(err error, trans ut.Translator) error {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	vErr := &ValidationError{Fields: make([]FieldError, 0, len(vErrs))}
	for _, fe := range vErrs {
		vErr.Add(fe.Field(), fe.Translate(trans))
	}
	return vErr
}

// Custom Global Validators

// notBlankValidation rejects strings made of whitespace only.
func notBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// isoDateValidation only allows YYYY-MM-DD dates.
func isoDateValidation(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}
