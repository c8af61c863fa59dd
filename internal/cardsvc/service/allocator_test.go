package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextNumber(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int
		want    int
	}{
		{"no cards yet", nil, 1},
		{"gap in the middle", []int{1, 2, 4}, 3},
		{"dense sequence", []int{1, 2, 3}, 4},
		{"unsorted input", []int{4, 1, 2}, 3},
		{"duplicates ignored", []int{1, 1, 2}, 3},
		{"sequence not starting at one", []int{2, 3}, 4},
		{"single card", []int{1}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextNumber(tt.numbers))
		})
	}
}
