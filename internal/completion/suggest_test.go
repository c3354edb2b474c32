package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSongs(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []Song
	}{
		{
			name:  "clean response",
			text:  `{"songs":[{"title":"Creep","artist":"Radiohead"}]}`,
			limit: 10,
			want:  []Song{{Title: "Creep", Artist: "Radiohead"}},
		},
		{
			name:  "response wrapped in prose",
			text:  "Here you go:\n\n{\"songs\":[{\"title\":\"Creep\",\"artist\":\"Radiohead\"}]}\n\nEnjoy!",
			limit: 10,
			want:  []Song{{Title: "Creep", Artist: "Radiohead"}},
		},
		{
			name:  "not JSON at all",
			text:  "sorry, I cannot help with that",
			limit: 10,
			want:  []Song{},
		},
		{
			name:  "broken JSON",
			text:  `{"songs":[{"title":"Creep",`,
			limit: 10,
			want:  []Song{},
		},
		{
			name:  "wrong shape",
			text:  `{"tracks":["Creep"]}`,
			limit: 10,
			want:  []Song{},
		},
		{
			name:  "blank entries dropped, fields trimmed",
			text:  `{"songs":[{"title":"  ","artist":" "},{"title":" Creep ","artist":" Radiohead "}]}`,
			limit: 10,
			want:  []Song{{Title: "Creep", Artist: "Radiohead"}},
		},
		{
			name:  "entry with only an artist survives",
			text:  `{"songs":[{"title":"","artist":"Radiohead"}]}`,
			limit: 10,
			want:  []Song{{Title: "", Artist: "Radiohead"}},
		},
		{
			name:  "truncated to limit",
			text:  `{"songs":[{"title":"A","artist":"x"},{"title":"B","artist":"x"},{"title":"C","artist":"x"}]}`,
			limit: 2,
			want:  []Song{{Title: "A", Artist: "x"}, {Title: "B", Artist: "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSongs(tt.text, tt.limit))
		})
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 1, clampLimit(0))
	assert.Equal(t, 1, clampLimit(-5))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, 20, clampLimit(20))
	assert.Equal(t, 20, clampLimit(100))
}
