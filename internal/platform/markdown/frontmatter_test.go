package markdown

import (
	"strings"
	"testing"
)

type noteMeta struct {
	ID    string  `yaml:"id"`
	Score float64 `yaml:"score"`
}

func TestRenderAndSplit(t *testing.T) {
	t.Parallel()
	rendered, err := Render(noteMeta{ID: "r-1", Score: 8.5}, "# Body\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(rendered, "---\nid: r-1\nscore: 8.5\n---\n\n# Body\n") {
		t.Fatalf("unexpected rendering:\n%s", rendered)
	}

	var meta noteMeta
	body, err := Split(rendered, &meta)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if meta.ID != "r-1" || meta.Score != 8.5 {
		t.Fatalf("unexpected meta %+v", meta)
	}
	if strings.TrimSpace(body) != "# Body" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestSplitWithoutFrontmatter(t *testing.T) {
	t.Parallel()
	var meta noteMeta
	body, err := Split("plain", &meta)
	if err != nil || body != "plain" || meta.ID != "" {
		t.Fatalf("expected passthrough, got body=%q meta=%+v err=%v", body, meta, err)
	}
	if _, err := Split("---\nid: x\n", &meta); err == nil {
		t.Fatalf("expected missing separator error")
	}
}
