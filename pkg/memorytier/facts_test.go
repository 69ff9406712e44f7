package memorytier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFacts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "name disclosure",
			input: "Hi, my name is Alice and I have a question",
			want:  map[string]string{"name": "Alice"},
		},
		{
			name:  "nothing to extract",
			input: "What is the capital of France?",
			want:  map[string]string{},
		},
		{
			name:  "location stops at comma",
			input: "I live in Jakarta, by the way",
			want:  map[string]string{"location": "Jakarta"},
		},
		{
			name:  "multi word location",
			input: "I live in New York",
			want:  map[string]string{"location": "New York"},
		},
		{
			name:  "employer drops trailing role clause",
			input: "I work at Initech as a consultant",
			want:  map[string]string{"employer": "Initech"},
		},
		{
			name:  "call me wins over name phrasing",
			input: "My name is Robert but call me Bob",
			want:  map[string]string{"name": "Bob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractFacts(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractFactsTrimsPunctuation(t *testing.T) {
	got := ExtractFacts("my name is Carol.")
	assert.Equal(t, "Carol", got["name"])
}
