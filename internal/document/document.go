package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ContentType is the MIME type the analysis service accepts.
const ContentType = "application/pdf"

// MaxSize bounds the documents we are willing to read into memory.
const MaxSize = 20 << 20

var (
	// ErrNotPDF is returned for files without a .pdf extension
	ErrNotPDF = errors.New("only PDF files are supported")

	// ErrTooLarge is returned for files above MaxSize
	ErrTooLarge = fmt.Errorf("file exceeds %d MB", MaxSize>>20)
)

// Document is a local file the user picked for analysis.
type Document struct {
	Path string
	Name string
	Size int64

	// Pages is 0 when the PDF structure could not be read locally.
	// The service is still the judge of whether the file is usable.
	Pages int
}

// Inspect validates path and reads basic PDF metadata.
func Inspect(path string) (*Document, error) {
	cleanPath := filepath.Clean(strings.TrimSpace(path))
	if cleanPath == "" || cleanPath == "." {
		return nil, fmt.Errorf("empty file path")
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", cleanPath)
	}
	if !IsPDF(cleanPath) {
		return nil, ErrNotPDF
	}
	if info.Size() > MaxSize {
		return nil, ErrTooLarge
	}

	doc := &Document{
		Path: cleanPath,
		Name: filepath.Base(cleanPath),
		Size: info.Size(),
	}

	// #nosec G304 - path is user-selected and validated above
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	doc.Pages = countPages(data)

	return doc, nil
}

// Open returns a reader over the document content.
func (d *Document) Open() (io.ReadCloser, error) {
	// #nosec G304 - path was validated by Inspect
	f, err := os.Open(d.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", d.Name, err)
	}
	return f, nil
}

// Describe returns a one-line summary such as "resume.pdf (2 pages, 48 KB)".
func (d *Document) Describe() string {
	if d == nil {
		return ""
	}
	size := FormatSize(d.Size)
	switch d.Pages {
	case 0:
		return fmt.Sprintf("%s (%s)", d.Name, size)
	case 1:
		return fmt.Sprintf("%s (1 page, %s)", d.Name, size)
	default:
		return fmt.Sprintf("%s (%d pages, %s)", d.Name, d.Pages, size)
	}
}

// IsPDF reports whether name carries a PDF extension.
func IsPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// FormatSize renders a byte count for display.
func FormatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%d KB", n>>10)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// PlainText extracts the text layer of a PDF held in memory.
func PlainText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	content, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// countPages returns 0 for anything the pdf reader rejects. The reader
// panics on some malformed inputs, so it is isolated here.
func countPages(data []byte) (pages int) {
	defer func() {
		if recover() != nil {
			pages = 0
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	return reader.NumPage()
}
