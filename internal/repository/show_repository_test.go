package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		seats []uint32
		total uint32
		want  bool
	}{
		{"all in range", []uint32{1, 50, 100}, 100, false},
		{"zero is invalid", []uint32{0, 1}, 100, true},
		{"beyond total", []uint32{101}, 100, true},
		{"boundary seat", []uint32{100}, 100, false},
		{"empty", nil, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, seatsOutOfRange(tt.seats, tt.total))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "(?, ?)", placeholders(1))
	assert.Equal(t, "(?, ?),(?, ?),(?, ?)", placeholders(3))
	assert.Equal(t, "", placeholders(0))
}
