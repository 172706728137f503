package httpopts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	o := NewOptions()
	assert.Empty(t, o.Validate())
	assert.Equal(t, int64(50<<20), o.MaxUploadSize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"bad addr", func(o *Options) { o.Addr = "no-port" }},
		{"bad mode", func(o *Options) { o.Mode = "production" }},
		{"zero upload size", func(o *Options) { o.MaxUploadSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOptions()
			tt.mutate(o)
			assert.NotEmpty(t, o.Validate())
		})
	}
}
