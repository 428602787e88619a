package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeStrain(t *testing.T) {
	cases := []struct {
		strain float64
		want   string
	}{
		{0, "relaxed"},
		{0.14, "relaxed"},
		{0.15, "composed"},
		{0.39, "composed"},
		{0.4, "straining"},
		{0.64, "straining"},
		{0.65, "overextended"},
		{0.84, "overextended"},
		{0.85, "breaking"},
		{1, "breaking"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DescribeStrain(c.strain), "strain=%v", c.strain)
	}
}
