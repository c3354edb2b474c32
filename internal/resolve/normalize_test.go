package resolve

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercases and trims",
			input: "  Bohemian Rhapsody  ",
			want:  "bohemian rhapsody",
		},
		{
			name:  "strips remaster parenthetical",
			input: "Creep (2008 Remaster)",
			want:  "creep",
		},
		{
			name:  "strips bracketed segment",
			input: "One More Time [Radio Edit]",
			want:  "one more time",
		},
		{
			name:  "strips dash qualifier",
			input: "Karma Police - Remastered",
			want:  "karma police",
		},
		{
			name:  "strips stacked dash qualifiers",
			input: "Let It Be - Remastered - Mono Version",
			want:  "let it be",
		},
		{
			name:  "keeps dash segment without qualifier token",
			input: "Song 2 - Blur",
			want:  "song 2 blur",
		},
		{
			name:  "strips feat parenthetical",
			input: "Empire State of Mind (feat. Alicia Keys)",
			want:  "empire state of mind",
		},
		{
			name:  "removes punctuation",
			input: "Don't Stop Me Now!",
			want:  "don t stop me now",
		},
		{
			name:  "collapses whitespace",
			input: "a   b\t c",
			want:  "a b c",
		},
		{
			name:  "empty input",
			input: "   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalize(tt.input); got != tt.want {
				t.Errorf("normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
