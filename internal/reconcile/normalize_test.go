package reconcile_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"

	"hotels_merge/internal/reconcile"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Business Center", "business center"},
		{"  WiFi!! ", "wifi"},
		{"Hair-Dryer / Iron", "hair-dryer / iron"},
		{"multiple   spaces\tand\nlines", "multiple spaces and lines"},
		{"snake_case", "snake_case"},
		{"Coffee (machine)", "coffee machine"},
		{"Hair\u00a0Dryer", "hair dryer"},
		{"hair\vdryer", "hair dryer"},
		{"hair\u2003\u3000dryer", "hair dryer"},
		{"\ufeffKettle\ufeff", "kettle"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, reconcile.Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	faker := gofakeit.New(7)
	inputs := []string{"  Dry   Cleaning.", "Tub!", "A/C - Room", "\t\tBAR\n"}
	for i := 0; i < 200; i++ {
		inputs = append(inputs, faker.Sentence(4), faker.Emoji()+faker.Word(), faker.Password(true, true, true, true, true, 12))
	}
	for _, in := range inputs {
		once := reconcile.Normalize(in)
		assert.Equal(t, once, reconcile.Normalize(once), "input %q", in)
	}
}
