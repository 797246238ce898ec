package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingContains(t *testing.T) {
	l := Listing{Entries: []string{"junos-install-22.img", "junos-install-24.img"}}

	assert.True(t, l.Contains("junos-install-24.img"))
	assert.False(t, l.Contains("junos-install-24"))
	assert.False(t, l.Contains(""))
}

func TestListingContains_Empty(t *testing.T) {
	var l Listing

	assert.False(t, l.Contains("anything"))
}
