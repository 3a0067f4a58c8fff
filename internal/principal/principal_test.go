package principal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAdmin(t *testing.T) {
	tests := []struct {
		name  string
		claim any
		want  bool
	}{
		{name: "bool true", claim: true, want: true},
		{name: "bool false", claim: false, want: false},
		{name: "string true", claim: "true", want: true},
		{name: "string with spaces", claim: " true ", want: true},
		{name: "string one", claim: "1", want: true},
		{name: "string false", claim: "false", want: false},
		{name: "string garbage", claim: "yes please", want: false},
		{name: "json number one", claim: float64(1), want: true},
		{name: "json number zero", claim: float64(0), want: false},
		{name: "int one", claim: 1, want: true},
		{name: "nil", claim: nil, want: false},
		{name: "unexpected type", claim: []string{"true"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAdmin(tt.claim))
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	p := &Principal{ID: "ann", Admin: true}
	ctx := NewContext(context.Background(), p)
	assert.Same(t, p, FromContext(ctx))
}
