package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "drops stop words and short tokens",
			text: "Qual é o meu nome?",
			want: []string{"nome"},
		},
		{
			name: "ranks by frequency, ties in first-seen order",
			text: "java, python! java é bom; python é bom. Java.",
			want: []string{"java", "python", "bom"},
		},
		{
			name: "respects max",
			text: "alfa beta gama delta",
			max:  2,
			want: []string{"alfa", "beta"},
		},
		{
			name: "accented words count runes not bytes",
			text: "pé céu avó",
			want: []string{"céu", "avó"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text, tt.max)
			assert.ElementsMatch(t, tt.want, got)
			if len(tt.want) > 0 {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExtract_DefaultMax(t *testing.T) {
	text := "um1x dois2 tres3 quatro4 cinco5 seis6 sete7 oito8 nove9 dez10 onze11 doze12"
	assert.Len(t, Extract(text, 0), DefaultMax)
}

func TestIsStopWord(t *testing.T) {
	assert.True(t, IsStopWord("Você"))
	assert.False(t, IsStopWord("linguagem"))
}
