package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// documentPart is the package part holding the document body.
const documentPart = "word/document.xml"

// Package is an opened DOCX package. The document part can be replaced; every
// other part is carried through to Save untouched, preserving the original
// compressed bytes so repeated saves of the same content are byte-identical.
type Package struct {
	files    []*zip.File
	document string
}

// Open reads a DOCX package from disk.
func Open(path string) (*Package, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read package: %w", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("read zip: %w", err)
	}

	pkg := &Package{files: reader.File}
	found := false
	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", documentPart, err)
		}
		doc, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", documentPart, err)
		}
		pkg.document = string(doc)
		found = true
		break
	}
	if !found {
		return nil, fmt.Errorf("not a valid DOCX file: missing %s", documentPart)
	}

	return pkg, nil
}

// Document returns the current document XML.
func (p *Package) Document() string {
	return p.document
}

// SetDocument replaces the document XML written by Save.
func (p *Package) SetDocument(content string) {
	p.document = content
}

// Save writes the package to path. Parts other than the document are copied
// raw in their original order; the document part is recompressed with a fixed
// header so identical content yields identical output files.
func (p *Package) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create package: %w", err)
	}

	writer := zip.NewWriter(out)
	for _, file := range p.files {
		if file.Name == documentPart {
			header := &zip.FileHeader{Name: documentPart, Method: zip.Deflate}
			w, err := writer.CreateHeader(header)
			if err != nil {
				return saveError(out, writer, path, err)
			}
			if _, err := io.WriteString(w, p.document); err != nil {
				return saveError(out, writer, path, err)
			}
			continue
		}

		header := file.FileHeader
		w, err := writer.CreateRaw(&header)
		if err != nil {
			return saveError(out, writer, path, err)
		}
		raw, err := file.OpenRaw()
		if err != nil {
			return saveError(out, writer, path, err)
		}
		if _, err := io.Copy(w, raw); err != nil {
			return saveError(out, writer, path, err)
		}
	}

	if err := writer.Close(); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return fmt.Errorf("finalize package: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close package: %w", err)
	}
	return nil
}

func saveError(out *os.File, writer *zip.Writer, path string, err error) error {
	_ = writer.Close()
	_ = out.Close()
	_ = os.Remove(path)
	return fmt.Errorf("write package: %w", err)
}
