// Package extract pulls plain text out of uploaded resume documents.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrCorruptDocument indicates a document that could not be parsed
// (malformed, truncated, or encrypted).
var ErrCorruptDocument = errors.New("corrupt document")

// ErrUnsupportedType indicates a mime type this service does not handle.
var ErrUnsupportedType = errors.New("unsupported mime type")

// Service extracts text from in-memory documents. It is constructed
// explicitly and injected into callers rather than used as package state.
// Libraries used: github.com/ledongthuc/pdf (PDF) and
// github.com/nguyenthenguyen/docx (DOCX).
type Service struct{}

// NewService constructs an extraction Service.
func NewService() *Service {
	return &Service{}
}

// Text extracts plain text from data according to its mime type.
func (s *Service) Text(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("extract %s: empty document: %w", fileName, ErrCorruptDocument)
	}

	switch normalizeMimeType(mimeType, fileName, data) {
	case mimePDF:
		return s.extractPDF(data)
	case mimeDOCX:
		return s.extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
}

func (s *Service) extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %v: %w", err, ErrCorruptDocument)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %v: %w", err, ErrCorruptDocument)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %v: %w", err, ErrCorruptDocument)
	}
	return buf.String(), nil
}

func (s *Service) extractDOCX(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	doc, err := docx.ReadDocxFromMemory(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %v: %w", err, ErrCorruptDocument)
	}
	defer doc.Close()
	return doc.Editable().GetContent(), nil
}

// normalizeMimeType resolves the generic types browsers send instead of the
// real document type: application/zip for docx uploads, and
// application/octet-stream (or nothing) when the client did not sniff at all.
func normalizeMimeType(mimeType, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case "application/zip":
		if zipHasEntry(data, "word/document.xml") {
			return mimeDOCX
		}
		if strings.EqualFold(filepath.Ext(fileName), ".docx") {
			return mimeDOCX
		}
		return clean
	case "application/octet-stream", "":
		switch strings.ToLower(filepath.Ext(fileName)) {
		case ".pdf":
			return mimePDF
		case ".docx":
			return mimeDOCX
		}
		if zipHasEntry(data, "word/document.xml") {
			return mimeDOCX
		}
		return clean
	default:
		return clean
	}
}

func zipHasEntry(data []byte, name string) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == name {
			return true
		}
	}
	return false
}
