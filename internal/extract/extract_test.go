package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		body.WriteString(p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(body.String())); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// buildPDF writes a single-page PDF with one text object per line.
func buildPDF(t *testing.T, lines ...string) []byte {
	t.Helper()
	var content strings.Builder
	y := 720
	for _, line := range lines {
		fmt.Fprintf(&content, "BT /F1 12 Tf 72 %d Td (%s) Tj ET\n", y, line)
		y -= 16
	}
	stream := content.String()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(stream), stream),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestExtractTextFromBytes_PDF(t *testing.T) {
	data := buildPDF(t, "Name: Jane Doe", "Skills: Go, SQL")

	got, err := ExtractTextFromBytes(context.Background(), data, "application/pdf", "cv.pdf")
	if err != nil {
		t.Fatalf("extract pdf: %v", err)
	}
	nameAt := strings.Index(got, "Name: Jane Doe")
	skillsAt := strings.Index(got, "Skills: Go, SQL")
	if nameAt < 0 || skillsAt < 0 {
		t.Fatalf("unexpected pdf text: %q", got)
	}
	if nameAt > skillsAt {
		t.Fatalf("expected page order preserved, got %q", got)
	}
}

func TestExtractTextFromBytes_DocxParagraphOrder(t *testing.T) {
	data := buildDocx(t, "Name: Jane Doe", "Email: jane@x.com")

	got, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "cv.docx")
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	if got != "Name: Jane Doe\nEmail: jane@x.com" {
		t.Fatalf("unexpected docx text: %q", got)
	}
}

func TestExtractTextFromBytes_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetCellValue("Sheet1", "A1", "Name"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if err := f.SetCellValue("Sheet1", "B1", "Jane Doe"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if err := f.SetCellValue("Sheet1", "A2", "Skills"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	got, err := ExtractTextFromBytes(context.Background(), buf.Bytes(), "application/octet-stream", "cv.xlsx")
	if err != nil {
		t.Fatalf("extract xlsx: %v", err)
	}
	if got != "Name\tJane Doe\nSkills" {
		t.Fatalf("unexpected xlsx text: %q", got)
	}
}

func TestExtractTextFromBytes_PlainText(t *testing.T) {
	got, err := ExtractTextFromBytes(context.Background(), []byte("Name: Jane Doe\n"), "text/plain; charset=utf-8", "cv.txt")
	if err != nil {
		t.Fatalf("extract text: %v", err)
	}
	if got != "Name: Jane Doe\n" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestExtractTextFromBytes_Unreadable(t *testing.T) {
	var plainZip bytes.Buffer
	zw := zip.NewWriter(&plainZip)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	tests := []struct {
		name     string
		data     []byte
		mimeType string
		fileName string
	}{
		{name: "empty", data: nil, mimeType: "application/pdf", fileName: "cv.pdf"},
		{name: "truncated pdf", data: []byte("%PDF-1.4\nnot really"), mimeType: "application/pdf", fileName: "cv.pdf"},
		{name: "plain zip", data: plainZip.Bytes(), mimeType: "application/zip", fileName: "notes.zip"},
		{name: "image", data: []byte{0x89, 'P', 'N', 'G'}, mimeType: "image/png", fileName: "cv.png"},
		{name: "corrupt docx", data: []byte("PK\x03\x04broken"), mimeType: mimeDOCX, fileName: "cv.docx"},
		{name: "blank text", data: []byte("   \n"), mimeType: "text/plain", fileName: "cv.txt"},
		{name: "binary as text", data: []byte{0xff, 0xfe, 0xfd}, mimeType: "text/plain", fileName: "cv.txt"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractTextFromBytes(context.Background(), tt.data, tt.mimeType, tt.fileName)
			if !errors.Is(err, ErrUnreadableDocument) {
				t.Fatalf("expected ErrUnreadableDocument, got %v", err)
			}
		})
	}
}

func TestExtractTextFromBytes_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExtractTextFromBytes(ctx, []byte("x"), "text/plain", "a.txt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNormalizeMimeType(t *testing.T) {
	docx := buildDocx(t, "x")
	tests := []struct {
		name     string
		mimeType string
		fileName string
		data     []byte
		want     string
	}{
		{name: "zip docx", mimeType: "application/zip", fileName: "a.bin", data: docx, want: mimeDOCX},
		{name: "octet docx", mimeType: "application/octet-stream", fileName: "a.docx", data: docx, want: mimeDOCX},
		{name: "octet pdf by ext", mimeType: "application/octet-stream", fileName: "A.PDF", data: []byte("junk"), want: mimePDF},
		{name: "octet pdf by magic", mimeType: "", fileName: "upload", data: []byte("%PDF-1.7\n"), want: mimePDF},
		{name: "charset stripped", mimeType: "text/plain; charset=utf-8", fileName: "a.txt", want: mimeText},
		{name: "markdown", mimeType: "text/markdown", fileName: "a.md", want: mimeText},
		{name: "pdf untouched", mimeType: "Application/PDF", fileName: "a.pdf", want: mimePDF},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeMimeType(tt.mimeType, tt.fileName, tt.data); got != tt.want {
				t.Fatalf("NormalizeMimeType(%q, %q) = %q, want %q", tt.mimeType, tt.fileName, got, tt.want)
			}
		})
	}
}
