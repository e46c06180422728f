package catalog

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEmptyCatalogRendersNothing(t *testing.T) {
	for name, render := range map[string]func(Catalog) string{
		"images":    ImageDirectives,
		"documents": DocumentDirectives,
	} {
		if got := render(nil); got != "" {
			t.Errorf("%s: nil catalog rendered %q", name, got)
		}
		if got := render(Catalog{}); got != "" {
			t.Errorf("%s: empty catalog rendered %q", name, got)
		}
	}
}

func TestListingIsSortedByFilename(t *testing.T) {
	c := Catalog{
		"zeta.png":  "z",
		"alpha.png": "camiseta,ropa",
		"mid.jpg":   "m",
	}
	want := strings.Join([]string{
		"- File 'alpha.png': tags 'camiseta,ropa'.",
		"- File 'mid.jpg': tags 'm'.",
		"- File 'zeta.png': tags 'z'.",
	}, "\n")
	if diff := cmp.Diff(want, Listing(c)); diff != "" {
		t.Fatalf("listing mismatch (-want +got):\n%s", diff)
	}
}

func TestImageDirectives(t *testing.T) {
	got := ImageDirectives(Catalog{"shirt.png": "camiseta,ropa"})

	for _, want := range []string{
		"AVAILABLE IMAGES:",
		"- File 'shirt.png': tags 'camiseta,ropa'.",
		"[SHOW_IMAGE:/static/product_images/",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("image directives missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "SHOW_DOCUMENT") {
		t.Error("image block must not carry the document rule")
	}
}

func TestDocumentDirectives(t *testing.T) {
	got := DocumentDirectives(Catalog{"guia.pdf": "manual,guia"})

	for _, want := range []string{
		"AVAILABLE DOCUMENTS:",
		"- File 'guia.pdf': tags 'manual,guia'.",
		"[SHOW_DOCUMENT:/static/documents/guide.pdf:guide.pdf]",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("document directives missing %q:\n%s", want, got)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := Catalog{"a.png": "a"}
	cp := orig.Clone()
	cp["b.png"] = "b"
	if _, ok := orig["b.png"]; ok {
		t.Fatal("clone shares storage with original")
	}
	if Catalog(nil).Clone() == nil {
		t.Fatal("clone of nil should be non-nil")
	}
}
