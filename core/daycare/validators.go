package daycare

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/garderie/core"
)

const clockLayout = "15:04"

var (
	clockTag         = "clock"
	endAfterStartTag = "endafterstart"

	texts = map[string]map[string]string{
		core.LocaleFR: {
			clockTag:         "heure invalide (HH:MM)",
			endAfterStartTag: "la fin doit être après le début",
		},
		core.LocaleAR: {
			clockTag:         "وقت غير صالح (HH:MM)",
			endAfterStartTag: "يجب أن تكون النهاية بعد البداية",
		},
	}
)

// InitValidators registers the daycare validations and their translations.
func InitValidators(validate *validator.Validate, uni *ut.UniversalTranslator) {
	_ = validate.RegisterValidation(clockTag, clockValidation)
	validate.RegisterStructValidation(eventStructValidation, EventForm{})

	for locale, tt := range texts {
		trans, found := uni.GetTranslator(locale)
		if !found {
			continue
		}
		for tag, text := range tt {
			core.RegisterCustomTranslation(validate, trans, tag, text)
		}
	}
}

// clockValidation only allows HH:MM times.
func clockValidation(fl validator.FieldLevel) bool {
	_, err := time.Parse(clockLayout, fl.Field().String())
	return err == nil
}

func eventStructValidation(sl validator.StructLevel) {
	ev, ok := sl.Current().Interface().(EventForm)
	if !ok {
		return
	}
	start, err1 := time.Parse(clockLayout, ev.StartTime)
	end, err2 := time.Parse(clockLayout, ev.EndTime)
	if err1 != nil || err2 != nil {
		return // reported by the field validations
	}
	if !end.After(start) {
		sl.ReportError(ev.EndTime, "end_time", "EndTime", endAfterStartTag, "")
	}
}
