package requirement

import (
	"reflect"
	"testing"
)

func TestRequirement_String(t *testing.T) {
	tests := []struct {
		name string
		req  Requirement
		want string
	}{
		{
			name: "pinned version",
			req:  Requirement{Name: "index-files", Version: "0.0.0+feature.deps.34330ff"},
			want: "index-files==0.0.0+feature.deps.34330ff",
		},
		{
			name: "bare name",
			req:  Requirement{Name: "requests"},
			want: "requests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Requirement
	}{
		{
			name:  "pinned",
			input: "index-files==0.0.0+feature.deps.34330ff",
			want:  Requirement{Name: "index-files", Version: "0.0.0+feature.deps.34330ff"},
		},
		{
			name:  "pinned with spaces",
			input: "numpy == 1.26.0",
			want:  Requirement{Name: "numpy", Version: "1.26.0"},
		},
		{
			name:  "bare",
			input: "requests",
			want:  Requirement{Name: "requests"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.input); got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Requirement
	}{
		{
			name:  "parenthesized pin",
			input: "index-commands (==0.0.0+feature.deps.acbdc9f)",
			want:  Requirement{Name: "index-commands", Version: "0.0.0+feature.deps.acbdc9f"},
		},
		{
			name:  "bare",
			input: "pandas",
			want:  Requirement{Name: "pandas"},
		},
		{
			name:  "plain pin stays unparsed by metadata shape",
			input: "index-files==0.0.0+main.34330ff",
			want:  Requirement{Name: "index-files==0.0.0+main.34330ff"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseMetadata(tt.input); got != tt.want {
				t.Errorf("ParseMetadata(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	reqs := []Requirement{
		{Name: "index-foo", Version: "1"},
		{Name: "requests", Version: "2"},
		{Name: "index-bar"}, // bare internal-prefixed name, no version
	}

	internal, external := Classify(reqs, "index")

	wantInternal := []Requirement{{Name: "index-foo", Version: "1"}}
	if !reflect.DeepEqual(internal, wantInternal) {
		t.Errorf("internal = %v, want %v", internal, wantInternal)
	}

	wantExternal := []Requirement{{Name: "index-bar"}, {Name: "requests", Version: "2"}}
	if !reflect.DeepEqual(external, wantExternal) {
		t.Errorf("external = %v, want %v", external, wantExternal)
	}
}

func TestClassify_Deduplicates(t *testing.T) {
	reqs := []Requirement{
		{Name: "requests", Version: "2"},
		{Name: "requests", Version: "2"},
		{Name: "index-foo", Version: "1"},
		{Name: "index-foo", Version: "1"},
	}

	internal, external := Classify(reqs, "index")
	if len(internal) != 1 {
		t.Errorf("internal has %d entries, want 1", len(internal))
	}
	if len(external) != 1 {
		t.Errorf("external has %d entries, want 1", len(external))
	}
}

func TestGroupByName(t *testing.T) {
	reqs := []Requirement{
		{Name: "index-foo", Version: "a"},
		{Name: "index-foo", Version: "b"},
		{Name: "index-bar", Version: "c"},
	}

	grouped := GroupByName(reqs)
	if len(grouped) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(grouped))
	}
	if len(grouped["index-foo"]) != 2 {
		t.Errorf("index-foo has %d versions, want 2", len(grouped["index-foo"]))
	}
	if len(grouped["index-bar"]) != 1 {
		t.Errorf("index-bar has %d versions, want 1", len(grouped["index-bar"]))
	}
}

func TestSortedUnique_OrdersByRendering(t *testing.T) {
	reqs := []Requirement{
		{Name: "zlib"},
		{Name: "index-foo", Version: "2"},
		{Name: "index-foo", Version: "1"},
		{Name: "zlib"},
	}

	got := Renderings(SortedUnique(reqs))
	want := []string{"index-foo==1", "index-foo==2", "zlib"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedUnique() renderings = %v, want %v", got, want)
	}
}
