package render

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{"plain text", "привет", "привет"},
		{"bold", "**жирный** текст", "<b>жирный</b> текст"},
		{"italic", "*курсив*", "<i>курсив</i>"},
		{"list item", "- пункт", "• пункт"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := ToHTML(test.markdown)
			if !strings.Contains(got, test.want) {
				t.Errorf("ToHTML(%q) = %q, want it to contain %q", test.markdown, got, test.want)
			}
		})
	}
}
