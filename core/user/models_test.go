package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	users := []User{
		{ID: 1, FirstName: "Amin", LastName: "El Fassi", Email: "amin@test.ma", Role: RoleParent, Status: StatusActive},
		{ID: 2, FirstName: "Lina", LastName: "Tazi", Email: "lina@test.ma", Role: RoleTeacher, Status: StatusActive},
		{ID: 3, FirstName: "Nora", LastName: "Idrissi", Email: "direction@test.ma", Role: RoleAdmin, Status: StatusInactive},
	}

	tests := []struct {
		name    string
		qf      QueryFilter
		wantIDs []int
	}{
		{name: "no filter", wantIDs: []int{1, 2, 3}},
		{name: "search name", qf: QueryFilter{Search: "LINA"}, wantIDs: []int{2}},
		{name: "search email", qf: QueryFilter{Search: "direction"}, wantIDs: []int{3}},
		{name: "role", qf: QueryFilter{Role: RoleParent}, wantIDs: []int{1}},
		{name: "status", qf: QueryFilter{Status: StatusInactive}, wantIDs: []int{3}},
		{name: "no match", qf: QueryFilter{Search: "zzz"}, wantIDs: []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]int, 0)
			for _, u := range Filter(users, tt.qf) {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestHomePath(t *testing.T) {
	assert.Equal(t, "/admin", HomePath(RoleAdmin))
	assert.Equal(t, "/teacher", HomePath(RoleTeacher))
	assert.Equal(t, "/parent", HomePath(RoleParent))
	assert.Equal(t, "/login", HomePath("nobody"))
}
