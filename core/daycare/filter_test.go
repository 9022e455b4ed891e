package daycare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

func TestFilterChildren(t *testing.T) {
	children := []Child{
		{ID: 1, FirstName: "Amin", LastName: "El Fassi", ClassID: null.IntFrom(1)},
		{ID: 2, FirstName: "Lina", LastName: "Tazi", ClassID: null.IntFrom(2)},
		{ID: 3, FirstName: "Yasmine", LastName: "Alaoui"},
	}

	tests := []struct {
		name    string
		filter  ChildFilter
		wantIDs []int
	}{
		{name: "no filter", wantIDs: []int{1, 2, 3}},
		{name: "lowercase search", filter: ChildFilter{Search: "lina"}, wantIDs: []int{2}},
		{name: "uppercase search", filter: ChildFilter{Search: "  LINA "}, wantIDs: []int{2}},
		{name: "last name", filter: ChildFilter{Search: "fassi"}, wantIDs: []int{1}},
		{name: "substring of both", filter: ChildFilter{Search: "a"}, wantIDs: []int{1, 2, 3}},
		{name: "class", filter: ChildFilter{ClassID: 1}, wantIDs: []int{1}},
		{name: "class and search", filter: ChildFilter{ClassID: 1, Search: "lina"}, wantIDs: []int{}},
		{name: "no match", filter: ChildFilter{Search: "omar"}, wantIDs: []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]int, 0)
			for _, c := range FilterChildren(children, tt.filter) {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFilterChildren_Names(t *testing.T) {
	children := []Child{
		{ID: 1, FirstName: "Amin", LastName: "El Fassi"},
		{ID: 2, FirstName: "Lina", LastName: "Tazi"},
	}
	res := FilterChildren(children, ChildFilter{Search: "lina"})
	if assert.Len(t, res, 1) {
		assert.Equal(t, "Lina Tazi", res[0].FullName())
	}
}

func TestFilterInscriptions(t *testing.T) {
	inscriptions := []Inscription{
		{ID: 1, ChildFirstName: "Adam", GuardianName: "Karim Benali", Status: InscriptionApplication},
		{ID: 2, ChildFirstName: "Sara", GuardianName: "Fatima Zahra", Status: InscriptionInReview},
		{ID: 3, ChildFirstName: "Ilyas", GuardianName: "Karim Haddad", Status: InscriptionActive},
	}

	f := InscriptionFilter{Search: "karim", Status: "bogus"}
	f.Clean()
	assert.Equal(t, "", f.Status)
	assert.Len(t, FilterInscriptions(inscriptions, f), 2)

	res := FilterInscriptions(inscriptions, InscriptionFilter{Status: InscriptionInReview})
	if assert.Len(t, res, 1) {
		assert.Equal(t, 2, res[0].ID)
	}
}

func TestScoping(t *testing.T) {
	children := []Child{
		{ID: 1, Guardians: []Guardian{{Name: "A", UserID: null.IntFrom(10)}}},
		{ID: 2, Guardians: []Guardian{{Name: "B"}}},
	}
	classes := []Class{{ID: 1, TeacherIDs: []int{5}}, {ID: 2, TeacherIDs: []int{6, 5}}, {ID: 3}}
	events := []Event{{ID: 1}, {ID: 2, ClassID: null.IntFrom(3)}, {ID: 3, ClassID: null.IntFrom(2)}}

	if got := ChildrenOf(children, 10); assert.Len(t, got, 1) {
		assert.Equal(t, 1, got[0].ID)
	}
	assert.Equal(t, []int{1, 2}, ClassIDs(ClassesOf(classes, 5)))

	ids := make([]int, 0)
	for _, e := range EventsFor(events, 1, 2) {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int{1, 3}, ids)
}
