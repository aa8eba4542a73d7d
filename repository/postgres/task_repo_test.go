package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	cases := map[string]struct {
		in   int
		want int
	}{
		"zero":     {0, 100},
		"negative": {-1, 100},
		"over_cap": {500, 100},
		"in_range": {25, 25},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, clampLimit(tc.in))
		})
	}
}

func TestClampOffset(t *testing.T) {
	cases := map[string]struct {
		in   int
		want int
	}{
		"negative": {-5, 0},
		"zero":     {0, 0},
		"positive": {10, 10},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, clampOffset(tc.in))
		})
	}
}
