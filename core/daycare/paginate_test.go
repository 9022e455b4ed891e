package daycare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := make([]int, 45)
	for i := range items {
		items[i] = i + 1
	}

	tests := []struct {
		name      string
		items     []int
		number    int
		size      int
		wantNum   int
		wantPages int
		wantFirst int
		wantLen   int
	}{
		{name: "first", items: items, number: 1, size: 20, wantNum: 1, wantPages: 3, wantFirst: 1, wantLen: 20},
		{name: "last partial", items: items, number: 3, size: 20, wantNum: 3, wantPages: 3, wantFirst: 41, wantLen: 5},
		{name: "below range", items: items, number: -4, size: 20, wantNum: 1, wantPages: 3, wantFirst: 1, wantLen: 20},
		{name: "above range", items: items, number: 9, size: 20, wantNum: 3, wantPages: 3, wantFirst: 41, wantLen: 5},
		{name: "default size", items: items, number: 2, wantNum: 2, wantPages: 3, wantFirst: 21, wantLen: 20},
		{name: "empty", items: []int{}, number: 2, size: 10, wantNum: 1, wantPages: 1, wantLen: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.items, tt.number, tt.size)
			assert.Equal(t, tt.wantNum, p.Number)
			assert.Equal(t, tt.wantPages, p.Pages)
			assert.Equal(t, len(tt.items), p.Total)
			if assert.Len(t, p.Items, tt.wantLen) && tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, p.Items[0])
			}
		})
	}

	p := Paginate(items, 2, 20)
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())
	assert.Equal(t, 1, p.Prev())
	assert.Equal(t, 3, p.Next())
}
