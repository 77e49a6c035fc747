package domain_test

import (
	"testing"

	"github.com/aretw0/crank/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGuard(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"Simple", "HasForks", "HasForks"},
		{"Call Parens", "HasForks()", "HasForks"},
		{"Negation", "!GetWaitingCustomer", "NOT_GetWaitingCustomer"},
		{"Compound", "Foo && Goo || !Moo", "Foo_AND_Goo_OR_NOT_Moo"},
		{"Tight Spacing", "Foo&&Goo||!Moo", "Foo_AND_Goo_OR_NOT_Moo"},
		{"Bare Words", "FooGuard AND GooGuard", "FooGuard_AND_GooGuard"},
		{"Grouping", "!(A || B) && C", "NOT_A_OR_B_AND_C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := domain.ParseGuard(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, g.Name())
		})
	}
}

func TestParseGuard_SpacingDoesNotChangeKey(t *testing.T) {
	a, err := domain.ParseGuard("A && B")
	require.NoError(t, err)
	b, err := domain.ParseGuard("A&&B")
	require.NoError(t, err)
	c, err := domain.ParseGuard("  A   &&   B ")
	require.NoError(t, err)

	assert.Equal(t, a.Tokens, b.Tokens)
	assert.Equal(t, a.Key(), c.Key())
	assert.Equal(t, "A && B", a.Key())
}

func TestParseGuard_Rejects(t *testing.T) {
	for _, text := range []string{"", "  ", "x > 3", "A & B", "A | B", "3rd"} {
		t.Run(text, func(t *testing.T) {
			_, err := domain.ParseGuard(text)
			assert.Error(t, err)
		})
	}
}
