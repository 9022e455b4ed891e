package user

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/garderie/core"
)

var (
	// password policy
	pwdMinLen    = 8
	pwdMinLenTag = "pwdminlen"

	pwdNoSpaceTag    = "pwdnospace"
	pwdNotAllNumTag  = "pwdnotallnum"
	pwdComplexityTag = "pwdcplx"
	specialRegex     = regexp.MustCompile("[^A-Za-z0-9]")

	pwdMaxSim     = .7
	pwdAttrSimTag = "pwdtoosim"

	pwdTexts = map[string]map[string]string{
		core.LocaleFR: {
			pwdMinLenTag:     fmt.Sprintf("le mot de passe doit contenir au moins %d caractères", pwdMinLen),
			pwdNoSpaceTag:    "le mot de passe ne doit pas contenir d'espace",
			pwdNotAllNumTag:  "le mot de passe ne peut pas être entièrement numérique",
			pwdComplexityTag: "le mot de passe doit contenir au moins 1 majuscule, 1 minuscule, 1 chiffre et 1 caractère spécial",
			pwdAttrSimTag:    "le mot de passe est trop proche des informations de l'utilisateur",
		},
		core.LocaleAR: {
			pwdMinLenTag:     fmt.Sprintf("يجب أن تحتوي كلمة المرور على %d أحرف على الأقل", pwdMinLen),
			pwdNoSpaceTag:    "يجب ألا تحتوي كلمة المرور على مسافات",
			pwdNotAllNumTag:  "لا يمكن أن تكون كلمة المرور أرقامًا فقط",
			pwdComplexityTag: "يجب أن تحتوي كلمة المرور على حرف كبير وحرف صغير ورقم ورمز خاص على الأقل",
			pwdAttrSimTag:    "كلمة المرور قريبة جدًا من معلومات المستخدم",
		},
	}
)

// InitValidators registers the user struct validations and their translations.
func InitValidators(validate *validator.Validate, uni *ut.UniversalTranslator) {
	validate.RegisterStructValidation(userStructValidation, NewUser{})

	for locale, texts := range pwdTexts {
		trans, found := uni.GetTranslator(locale)
		if !found {
			continue
		}
		for tag, text := range texts {
			core.RegisterCustomTranslation(validate, trans, tag, text)
		}
	}
}

// userStructValidation does struct level validation on NewUser.
func userStructValidation(sl validator.StructLevel) {
	if usr, ok := sl.Current().Interface().(NewUser); ok && usr.Password != "" {
		validatePassword(usr.Password, usr.FullNameHint(), usr.Email, sl)
	}
}

// FullNameHint is the user attribute the password must not resemble.
func (nu NewUser) FullNameHint() string {
	return strings.TrimSpace(nu.FirstName + nu.LastName)
}

// validatePassword applies the password policy to provided password:
// - minLen: 8
// - no whitespace
// - no all numeric
// - complexity: 1 upper, 1 lower, 1 digit, 1 special
// - no user attrs similarity
func validatePassword(pwd, name, email string, sl validator.StructLevel) {
	reportErr := func(tag string) {
		sl.ReportError(pwd, "password", "Password", tag, "")
	}

	var (
		digitCount         int
		hasUpper, hasLower bool
	)

	pwdLen := len([]rune(pwd))
	if pwdLen < pwdMinLen {
		reportErr(pwdMinLenTag)
		return
	}
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			reportErr(pwdNoSpaceTag)
			return
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
		if !hasUpper && unicode.IsUpper(char) {
			hasUpper = true
		}
		if !hasLower && unicode.IsLower(char) {
			hasLower = true
		}
	}

	if digitCount == pwdLen {
		reportErr(pwdNotAllNumTag)
		return
	}

	if !(hasUpper && hasLower && digitCount > 0 && specialRegex.MatchString(pwd)) {
		reportErr(pwdComplexityTag)
		return
	}

	getRatio := func(pass, usrAttr string) float64 {
		if usrAttr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(strings.ToLower(pass), ""), strings.Split(strings.ToLower(usrAttr), "")).QuickRatio()
	}
	emailName := strings.SplitN(email, "@", 2)[0]
	if getRatio(pwd, name) >= pwdMaxSim || getRatio(pwd, emailName) >= pwdMaxSim {
		reportErr(pwdAttrSimTag)
	}
}
