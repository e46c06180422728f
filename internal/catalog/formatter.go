package catalog

import (
	"fmt"
	"strings"
)

const (
	// ImageURLPrefix is where uploaded catalog images are served from.
	ImageURLPrefix = "/static/product_images/"
	// DocumentURLPrefix is where uploaded catalog documents are served from.
	DocumentURLPrefix = "/static/documents/"
)

const imageRule = `IMAGE RULE: If the user's question matches the tags of an image, your reply MUST include the command [SHOW_IMAGE:` + ImageURLPrefix + `file_name.ext] and, on a new line, a short explanatory text.
Example of a correct reply:
[SHOW_IMAGE:` + ImageURLPrefix + `shirt.png]
Here is the shirt you asked about.`

const documentRule = `DOCUMENT RULE: If the user's question matches the tags of a document, your reply must have two parts: an introductory text and, on a new line, the command that shows the document.
Example of a correct reply:
Sure, here is the guide you requested.
[SHOW_DOCUMENT:` + DocumentURLPrefix + `guide.pdf:guide.pdf]`

// ImageDirectives renders the image listing and its SHOW_IMAGE rule.
// An empty catalog renders to the empty string.
func ImageDirectives(c Catalog) string {
	return directives("AVAILABLE IMAGES:", c, imageRule)
}

// DocumentDirectives renders the document listing and its SHOW_DOCUMENT rule.
// An empty catalog renders to the empty string.
func DocumentDirectives(c Catalog) string {
	return directives("AVAILABLE DOCUMENTS:", c, documentRule)
}

// Listing renders one line per entry in filename order.
func Listing(c Catalog) string {
	lines := make([]string, 0, len(c))
	for _, name := range c.Filenames() {
		lines = append(lines, fmt.Sprintf("- File '%s': tags '%s'.", name, c[name]))
	}
	return strings.Join(lines, "\n")
}

func directives(header string, c Catalog, rule string) string {
	if len(c) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(Listing(c))
	b.WriteString("\n")
	b.WriteString(rule)
	return b.String()
}
