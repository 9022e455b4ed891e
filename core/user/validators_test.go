package user

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/garderie/core"
)

func newValidator() *validator.Validate {
	validate := validator.New()
	uni := core.NewUniversalTranslator()
	core.InitValidators(validate, uni)
	InitValidators(validate, uni)
	return validate
}

func TestNewUser_Validate(t *testing.T) {
	validate := newValidator()

	base := func() NewUser {
		return NewUser{
			FirstName:       " Lina ",
			LastName:        "Tazi",
			Email:           " Lina.Tazi@Test.MA ",
			Role:            RoleTeacher,
			Password:        "Gr4nd-Soleil!",
			PasswordConfirm: "Gr4nd-Soleil!",
		}
	}

	tests := []struct {
		name    string
		mutate  func(nu *NewUser)
		wantTag string
	}{
		{name: "valid", mutate: func(nu *NewUser) {}},
		{name: "blank first name", mutate: func(nu *NewUser) { nu.FirstName = "   " }, wantTag: "required"},
		{name: "bad role", mutate: func(nu *NewUser) { nu.Role = "janitor" }, wantTag: "oneof"},
		{name: "mismatch", mutate: func(nu *NewUser) { nu.PasswordConfirm = "nope" }, wantTag: "eqfield"},
		{name: "too short", mutate: func(nu *NewUser) { nu.Password, nu.PasswordConfirm = "Ab1!", "Ab1!" }, wantTag: pwdMinLenTag},
		{name: "space", mutate: func(nu *NewUser) { nu.Password, nu.PasswordConfirm = "Gr4nd Soleil!", "Gr4nd Soleil!" }, wantTag: pwdNoSpaceTag},
		{name: "all numeric", mutate: func(nu *NewUser) { nu.Password, nu.PasswordConfirm = "1234567890", "1234567890" }, wantTag: pwdNotAllNumTag},
		{name: "not complex", mutate: func(nu *NewUser) { nu.Password, nu.PasswordConfirm = "grandsoleil", "grandsoleil" }, wantTag: pwdComplexityTag},
		{name: "too similar", mutate: func(nu *NewUser) { nu.Password, nu.PasswordConfirm = "LinaTazi1!", "LinaTazi1!" }, wantTag: pwdAttrSimTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := base()
			tt.mutate(&nu)
			err := nu.Validate(validate)
			if tt.wantTag == "" {
				assert.NoError(t, err)
				assert.Equal(t, "lina.tazi@test.ma", nu.Email)
				assert.Equal(t, "Lina", nu.FirstName)
				return
			}
			vErrs, ok := err.(validator.ValidationErrors)
			if !assert.True(t, ok, "expected validator.ValidationErrors, got %v", err) {
				return
			}
			tags := make([]string, 0, len(vErrs))
			for _, fe := range vErrs {
				tags = append(tags, fe.Tag())
			}
			assert.Contains(t, tags, tt.wantTag)
		})
	}
}

func TestPasswordErrors_AreTranslated(t *testing.T) {
	validate := validator.New()
	uni := core.NewUniversalTranslator()
	core.InitValidators(validate, uni)
	InitValidators(validate, uni)

	nu := NewUser{
		FirstName: "Amin", LastName: "El Fassi", Email: "amin@test.ma", Role: RoleParent,
		Password: "short", PasswordConfirm: "short",
	}
	for _, locale := range core.Locales {
		err := core.TranslateErrors(nu.Validate(validate), core.Translator(uni, locale))
		vErr, ok := err.(*core.ValidationError)
		if !ok {
			t.Fatalf("%s: TranslateErrors() = %T; want *core.ValidationError", locale, err)
		}
		assert.Equal(t, pwdTexts[locale][pwdMinLenTag], vErr.FieldMap()["password"], locale)
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	validate := newValidator()

	tests := []struct {
		name    string
		req     LoginRequest
		wantErr bool
	}{
		{name: "valid", req: LoginRequest{Email: " Admin@Garderie.MA", Password: "x"}},
		{name: "missing email", req: LoginRequest{Password: "x"}, wantErr: true},
		{name: "bad email", req: LoginRequest{Email: "admin", Password: "x"}, wantErr: true},
		{name: "missing password", req: LoginRequest{Email: "admin@garderie.ma"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(validate)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
