package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
)

func makeZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTextGarbagePDFIsCorrupt(t *testing.T) {
	svc := NewService()
	_, err := svc.Text(context.Background(), []byte("definitely not a pdf"), "application/pdf", "resume.pdf")
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("expected ErrCorruptDocument, got %v", err)
	}
}

func TestTextEmptyDocumentIsCorrupt(t *testing.T) {
	svc := NewService()
	_, err := svc.Text(context.Background(), nil, "application/pdf", "resume.pdf")
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("expected ErrCorruptDocument, got %v", err)
	}
}

func TestTextUnsupportedMimeRejected(t *testing.T) {
	svc := NewService()
	_, err := svc.Text(context.Background(), []byte("hello"), "text/html", "resume.html")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestTextRealZipRejected(t *testing.T) {
	svc := NewService()
	data := makeZip(t, map[string]string{"notes.txt": "hello"})
	_, err := svc.Text(context.Background(), data, "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType for plain zip, got %v", err)
	}
}

func TestTextCancelledContext(t *testing.T) {
	svc := NewService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Text(ctx, []byte("data"), "application/pdf", "resume.pdf"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNormalizeMimeType(t *testing.T) {
	docxZip := makeZip(t, map[string]string{"word/document.xml": "<w:document/>"})
	plainZip := makeZip(t, map[string]string{"notes.txt": "hello"})

	tests := []struct {
		name     string
		mime     string
		fileName string
		data     []byte
		want     string
	}{
		{name: "pdf passthrough", mime: "application/pdf", fileName: "a.pdf", want: mimePDF},
		{name: "mime with charset", mime: "Application/PDF; charset=utf-8", fileName: "a.pdf", want: mimePDF},
		{name: "zip with document xml", mime: "application/zip", fileName: "a.bin", data: docxZip, want: mimeDOCX},
		{name: "zip with docx extension", mime: "application/zip", fileName: "a.docx", data: plainZip, want: mimeDOCX},
		{name: "plain zip stays zip", mime: "application/zip", fileName: "a.zip", data: plainZip, want: "application/zip"},
		{name: "octet stream with pdf extension", mime: "application/octet-stream", fileName: "resume.PDF", want: mimePDF},
		{name: "octet stream with docx content", mime: "application/octet-stream", fileName: "a.bin", data: docxZip, want: mimeDOCX},
		{name: "missing mime with docx extension", mime: "", fileName: "resume.docx", want: mimeDOCX},
		{name: "octet stream unresolved", mime: "application/octet-stream", fileName: "a.bin", want: "application/octet-stream"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeMimeType(tt.mime, tt.fileName, tt.data); got != tt.want {
				t.Fatalf("normalizeMimeType(%q, %q) = %q, want %q", tt.mime, tt.fileName, got, tt.want)
			}
		})
	}
}
