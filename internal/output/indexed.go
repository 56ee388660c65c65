package output

import (
	"fmt"
	"strings"

	"papeterie/internal/textutil"
)

// Indexed names the artifacts of one recipient.
type Indexed struct {
	workspace *Workspace
	idx       int
}

// Index is the recipient's position in the run.
func (i Indexed) Index() int { return i.idx }

// SnippetFile holds the rendered text of one fragment.
func (i Indexed) SnippetFile(name string) string {
	return i.file("snippet_%s_%03d.txt", strings.ToLower(textutil.SanitizeFileName(name)), i.idx)
}

// SnippetCollection holds all rendered fragments.
func (i Indexed) SnippetCollection() string {
	return i.file("snippet_collection_%03d.txt", i.idx)
}

// TexCollection holds all texified fragments.
func (i Indexed) TexCollection() string {
	return i.file("tex_collection_%03d.txt", i.idx)
}

// TexResult is the rendered layout.
func (i Indexed) TexResult() string {
	return i.file("result_%03d.tex", i.idx)
}

// PDFBasename is the compiler job name.
func (i Indexed) PDFBasename() string {
	return fmt.Sprintf("%s_%03d", pdfBasename, i.idx)
}

// PDFPath is the compiled document.
func (i Indexed) PDFPath() string {
	return i.workspace.path(i.PDFBasename() + ".pdf")
}

func (i Indexed) file(format string, args ...any) string {
	return i.workspace.path(fmt.Sprintf(format, args...))
}
