package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("reject")
	assert.NoError(t, err)
	assert.Equal(t, DuplicatesReject, p)
	assert.Equal(t, "reject", p.String())

	p, err = ParsePolicy("allow")
	assert.NoError(t, err)
	assert.Equal(t, DuplicatesAllow, p)

	_, err = ParsePolicy("")
	assert.Error(t, err)
	_, err = ParsePolicy("Reject")
	assert.Error(t, err)

	var zero DuplicatePolicy
	assert.False(t, zero.Valid())
	assert.Equal(t, "unset", zero.String())
}
