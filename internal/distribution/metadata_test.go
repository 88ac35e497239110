package distribution

import "testing"

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{"lowercases", []string{"France", "REVOLUTION"}, []string{"france", "revolution"}},
		{"strips inner spaces", []string{"Moon Landing", " cold war "}, []string{"moonlanding", "coldwar"}},
		{"drops empty", []string{"", "  ", "rome"}, []string{"rome"}},
		{"preserves order", []string{"b", "a", "c"}, []string{"b", "a", "c"}},
		{"nil input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTags(tt.tags)
			if len(got) != len(tt.want) {
				t.Fatalf("NormalizeTags(%v) = %v, want %v", tt.tags, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("NormalizeTags(%v)[%d] = %q, want %q", tt.tags, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRenderTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		tags  []string
		want  string
	}{
		{
			name:  "with tags",
			title: "Moon Landing",
			tags:  []string{"space", "history"},
			want:  "Today in history: Moon Landing #space #history",
		},
		{
			name:  "no tags",
			title: "Moon Landing",
			tags:  nil,
			want:  "Today in history: Moon Landing",
		},
		{
			name:  "tags normalized",
			title: "Cold War",
			tags:  []string{"Berlin Wall"},
			want:  "Today in history: Cold War #berlinwall",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderTitle("Today in history:", tt.title, tt.tags)
			if got != tt.want {
				t.Errorf("RenderTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
