package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoin(t *testing.T) {
	assert.Equal(t, "", Join())
	assert.Equal(t, "embedding.", Join("embedding"))
	assert.Equal(t, "server.embedding.", Join("server", "embedding"))
}
