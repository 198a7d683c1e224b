package category

import (
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		input   string
		want    ContentType
		wantErr bool
	}{
		{"youtube", YouTube, false},
		{"article", Article, false},
		{"articles", Article, false},
		{" Papers ", Paper, false},
		{"other", Other, false},
		{"podcast", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Parse(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDirRoundTrip(t *testing.T) {
	for _, ct := range All() {
		got, ok := FromDir(ct.Dir())
		if !ok || got != ct {
			t.Fatalf("FromDir(%q) = %q, %v", ct.Dir(), got, ok)
		}
	}
}

func TestResolve(t *testing.T) {
	root := filepath.Join("/data", "reports")

	cases := []struct {
		name   string
		path   string
		want   ContentType
		wantOK bool
	}{
		{"youtube", filepath.Join(root, "youtube", "a.md"), YouTube, true},
		{"articles", filepath.Join(root, "articles", "b.md"), Article, true},
		{"nested", filepath.Join(root, "papers", "sub", "c.md"), Paper, true},
		{"root file", filepath.Join(root, "d.md"), "", false},
		{"unknown dir", filepath.Join(root, "podcasts", "e.md"), "", false},
		{"outside root", filepath.Join("/elsewhere", "youtube", "f.md"), "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Resolve(root, tc.path)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("Resolve(%q) = %q, %v; want %q, %v", tc.path, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}
