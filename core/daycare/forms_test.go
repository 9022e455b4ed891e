package daycare

import (
	"testing"
	"time"

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

func fieldTags(err error) map[string]string {
	tags := make(map[string]string)
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range vErrs {
			tags[fe.Field()] = fe.Tag()
		}
	}
	return tags
}

func TestEventForm_Validate(t *testing.T) {
	validate := newValidator()

	tests := []struct {
		name     string
		form     EventForm
		wantTags map[string]string
	}{
		{
			name:     "valid",
			form:     EventForm{Title: "Kermesse", Date: "2024-06-14", StartTime: "09:00", EndTime: "12:30"},
			wantTags: map[string]string{},
		},
		{
			name:     "missing title",
			form:     EventForm{Title: "  ", Date: "2024-06-14", StartTime: "09:00", EndTime: "12:30"},
			wantTags: map[string]string{"title": "required"},
		},
		{
			name:     "bad clock",
			form:     EventForm{Title: "Kermesse", Date: "2024-06-14", StartTime: "9h", EndTime: "12:30"},
			wantTags: map[string]string{"start_time": "clock"},
		},
		{
			name:     "end before start",
			form:     EventForm{Title: "Kermesse", Date: "14/06/2024", StartTime: "12:00", EndTime: "09:00"},
			wantTags: map[string]string{"date": "isodate", "end_time": endAfterStartTag},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantTags, fieldTags(tt.form.Validate(validate)))
		})
	}
}

func TestEventForm_Event(t *testing.T) {
	loc := time.FixedZone("WEST", 1*60*60)
	ev := EventForm{Title: "Kermesse", Date: "2024-06-14", StartTime: "09:00", EndTime: "12:30", ClassID: 2}.Event(loc)

	assert.Equal(t, time.Date(2024, time.June, 14, 8, 0, 0, 0, time.UTC), ev.StartsAt)
	assert.Equal(t, time.Date(2024, time.June, 14, 11, 30, 0, 0, time.UTC), ev.EndsAt)
	assert.True(t, ev.ClassID.Valid)
	assert.Equal(t, 2, ev.ClassID.Int)
}

func TestChildForm(t *testing.T) {
	validate := newValidator()

	f := ChildForm{
		FirstName: " Lina ", LastName: "Tazi", BirthDate: "2021-03-02",
		GuardianName: "Samira Tazi", GuardianPhone: "0600000000", GuardianEmail: " Samira@Test.MA ",
	}
	if err := f.Validate(validate); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	c := f.Child()
	assert.Equal(t, "Lina", c.FirstName)
	assert.False(t, c.ClassID.Valid)
	assert.False(t, c.Allergies.Valid)
	if assert.Len(t, c.Guardians, 1) {
		assert.Equal(t, "samira@test.ma", c.Guardians[0].Email.String)
	}
	assert.Equal(t, f, ChildFormFrom(c))

	bad := ChildForm{BirthDate: "2021-13-45", GuardianEmail: "nope"}
	tags := fieldTags(bad.Validate(validate))
	assert.Equal(t, "required", tags["first_name"])
	assert.Equal(t, "isodate", tags["birth_date"])
	assert.Equal(t, "email", tags["guardian_email"])
}

func TestClassForm_Validate(t *testing.T) {
	validate := newValidator()

	ok := ClassForm{Name: "Petits", Capacity: 12, MinAge: 12, MaxAge: 24}
	assert.NoError(t, ok.Validate(validate))
	assert.Equal(t, []int{}, ok.Class().TeacherIDs)

	bad := ClassForm{Name: "Petits", Capacity: 0, MinAge: 24, MaxAge: 12}
	tags := fieldTags(bad.Validate(validate))
	assert.Equal(t, "gte", tags["capacity"])
	assert.Equal(t, "gtefield", tags["max_age_months"])
}

func TestMenuForm_Menu(t *testing.T) {
	m := MenuForm{Date: "2024-05-06", Lunch: "Tajine", Allergens: " gluten, ,lait ", Publish: true}.Menu()
	assert.Equal(t, []string{"gluten", "lait"}, m.Allergens)
	assert.Equal(t, MenuPublished, m.Status)

	m = MenuForm{Date: "2024-05-06", Lunch: "Tajine"}.Menu()
	assert.Equal(t, MenuDraft, m.Status)
	assert.Equal(t, []string{}, m.Allergens)
}

func TestChild_AgeInMonths(t *testing.T) {
	c := Child{BirthDate: "2022-05-15"}
	assert.Equal(t, 23, c.AgeInMonths(time.Date(2024, time.May, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 24, c.AgeInMonths(time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, Child{}.AgeInMonths(time.Now()))
}
