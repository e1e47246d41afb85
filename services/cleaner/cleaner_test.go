package cleaner

import (
	"strings"
	"testing"
)

func TestClean_RemovesAdElements(t *testing.T) {
	page := `<html><body>
		<div class="content">keep me</div>
		<script>track()</script>
		<iframe src="https://ads.example"></iframe>
		<ins class="adsbygoogle"></ins>
		<div class="ad-banner">buy things</div>
		<div id="sponsor-block">sponsored</div>
		<aside>related junk</aside>
	</body></html>`

	got, err := Clean(strings.NewReader(page))
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if !strings.Contains(got, "keep me") {
		t.Error("content element was removed")
	}
	for _, gone := range []string{"<script", "<iframe", "<ins", "ad-banner", "sponsor-block", "<aside"} {
		if strings.Contains(got, gone) {
			t.Errorf("expected %q to be stripped", gone)
		}
	}
}

func TestClean_StripsInlineHandlers(t *testing.T) {
	page := `<html><body><a href="/x" onclick="evil()" onmouseover="evil()">link</a></body></html>`

	got, err := CleanString(page)
	if err != nil {
		t.Fatalf("CleanString failed: %v", err)
	}

	if strings.Contains(got, "onclick") || strings.Contains(got, "onmouseover") {
		t.Error("inline handlers survived cleaning")
	}
	if !strings.Contains(got, `href="/x"`) {
		t.Error("benign attributes should be preserved")
	}
}

func TestClean_EmptyDocument(t *testing.T) {
	got, err := CleanString("")
	if err != nil {
		t.Fatalf("CleanString failed: %v", err)
	}
	if got == "" {
		t.Error("expected a minimal html skeleton, got empty output")
	}
}
