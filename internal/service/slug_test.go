package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugFilename(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Policy A", "Policy_A.txt"},
		{"Relatório de Aula", "Relat_rio_de_Aula.txt"},
		{"  spaced  out  ", "spaced_out.txt"},
		{"///", "document.txt"},
		{"", "document.txt"},
		{"already_clean", "already_clean.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, slugFilename(tt.title))
		})
	}
}

func TestSlugFilenameCapsLength(t *testing.T) {
	got := slugFilename(strings.Repeat("a", 200))

	assert.True(t, strings.HasSuffix(got, ".txt"))
	assert.LessOrEqual(t, len(got), maxSlugLen+len(".txt"))
}
