package configresolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectionPrefixesOrder(t *testing.T) {
	got := SectionPrefixes("p", []string{"s1", "s2"}, "cfg")

	want := [][]string{
		{"p", "s1", "s2", "cfg"},
		{"p", "s1", "cfg"},
		{"p", "cfg"},
		{"cfg"},
		{"p", "s1", "s2"},
		{"p", "s1"},
		{"p"},
		{},
	}
	assert.Equal(t, want, got)
}

func TestSectionPrefixesNoPipelineName(t *testing.T) {
	got := SectionPrefixes("", []string{"s1"}, "cfg")

	want := [][]string{
		{"s1", "cfg"},
		{"cfg"},
		{"s1"},
		{},
	}
	assert.Equal(t, want, got)
}

func TestSectionPrefixesNoSections(t *testing.T) {
	got := SectionPrefixes("p", nil, "cfg")

	want := [][]string{
		{"p", "cfg"},
		{"cfg"},
		{"p"},
		{},
	}
	assert.Equal(t, want, got)
}
