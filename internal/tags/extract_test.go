package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plonetools/tagctl/internal/gateway"
)

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name     string
		doc      gateway.Document
		want     []string
		strategy string
	}{
		{
			name:     "catalog field",
			doc:      gateway.Document{"Subject": []any{"beach", "surf"}},
			want:     []string{"beach", "surf"},
			strategy: "Subject",
		},
		{
			name:     "lowercase variant",
			doc:      gateway.Document{"subject": []any{"beach"}},
			want:     []string{"beach"},
			strategy: "subject",
		},
		{
			name: "components nesting",
			doc: gateway.Document{
				"@components": map[string]any{"Subject": []any{"beach"}},
			},
			want:     []string{"beach"},
			strategy: "@components.Subject",
		},
		{
			name: "metadata nesting",
			doc: gateway.Document{
				"metadata": map[string]any{"Subject": []any{"beach"}},
			},
			want:     []string{"beach"},
			strategy: "metadata.Subject",
		},
		{
			name:     "object field",
			doc:      gateway.Document{"subjects": []any{"beach"}},
			want:     []string{"beach"},
			strategy: "subjects",
		},
		{
			name:     "alternate vocabulary",
			doc:      gateway.Document{"keywords": []any{"beach"}},
			want:     []string{"beach"},
			strategy: "keywords",
		},
		{
			name: "priority order",
			doc: gateway.Document{
				"subjects": []any{"from-subjects"},
				"Subject":  []any{"from-catalog"},
			},
			want:     []string{"from-catalog"},
			strategy: "Subject",
		},
		{
			name: "empty high priority field falls through",
			doc: gateway.Document{
				"Subject":  []any{},
				"subjects": []any{"beach"},
			},
			want:     []string{"beach"},
			strategy: "subjects",
		},
		{
			name:     "single string coerced",
			doc:      gateway.Document{"Subject": "beach"},
			want:     []string{"beach"},
			strategy: "Subject",
		},
		{
			name:     "string slice",
			doc:      gateway.Document{"subjects": []string{"beach", "surf"}},
			want:     []string{"beach", "surf"},
			strategy: "subjects",
		},
		{
			name:     "non-string entries skipped",
			doc:      gateway.Document{"Subject": []any{"beach", 42, nil, "surf"}},
			want:     []string{"beach", "surf"},
			strategy: "Subject",
		},
		{
			name:     "empty strings dropped",
			doc:      gateway.Document{"Subject": []any{"", "beach", ""}},
			want:     []string{"beach"},
			strategy: "Subject",
		},
		{
			name:     "duplicates and order preserved",
			doc:      gateway.Document{"Subject": []any{"b", "a", "b"}},
			want:     []string{"b", "a", "b"},
			strategy: "Subject",
		},
		{
			name:     "no known field",
			doc:      gateway.Document{"title": "Untagged", "@type": "Document"},
			want:     nil,
			strategy: "",
		},
		{
			name:     "unusable value type",
			doc:      gateway.Document{"Subject": map[string]any{"not": "a list"}},
			want:     nil,
			strategy: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, strategy := ExtractTags(tt.doc)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.strategy, strategy)
		})
	}
}
