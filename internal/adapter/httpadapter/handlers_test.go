package httpadapter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLongDate(t *testing.T) {
	tests := []struct {
		in       time.Time
		expected string
	}{
		{time.Date(2020, time.January, 3, 0, 0, 0, 0, time.UTC), "3rd January 2020"},
		{time.Date(2022, time.December, 20, 0, 0, 0, 0, time.UTC), "20th December 2022"},
		{time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC), "1st March 2021"},
		{time.Date(2021, time.March, 22, 0, 0, 0, 0, time.UTC), "22nd March 2021"},
		{time.Date(2021, time.March, 11, 0, 0, 0, 0, time.UTC), "11th March 2021"},
		{time.Date(2021, time.March, 13, 0, 0, 0, 0, time.UTC), "13th March 2021"},
		{time.Time{}, "-"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, longDate(tt.in))
		})
	}
}
