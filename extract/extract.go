// Package extract turns uploaded files into plain text. Only PDF and TXT
// payloads are supported; any failure is a terminal processing failure for
// the document.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Reason classifies why extraction failed.
type Reason string

const (
	ReasonUnsupported Reason = "unsupported"
	ReasonCorrupt     Reason = "corrupt"
	ReasonEmpty       Reason = "empty"
)

type Error struct {
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract text (%s): %s", e.Reason, e.Message)
}

// Text extracts plain text from an uploaded file, using the declared content
// type and the filename extension to pick a format.
func Text(filename, contentType string, data []byte) (string, error) {
	switch detectFormat(filename, contentType) {
	case "pdf":
		return pdfText(data)
	case "txt":
		return plainText(data)
	default:
		return "", &Error{Reason: ReasonUnsupported, Message: "only PDF and TXT files are supported"}
	}
}

func detectFormat(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case contentType == "application/pdf" || ext == ".pdf":
		return "pdf"
	case strings.HasPrefix(contentType, "text/plain") || ext == ".txt":
		return "txt"
	default:
		return ""
	}
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &Error{Reason: ReasonCorrupt, Message: "open pdf: " + err.Error()}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &Error{Reason: ReasonCorrupt, Message: "read pdf text: " + err.Error()}
	}

	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, plain); err != nil {
		return "", &Error{Reason: ReasonCorrupt, Message: "read pdf text: " + err.Error()}
	}

	text := buf.String()
	if strings.TrimSpace(text) == "" {
		return "", &Error{Reason: ReasonEmpty, Message: "PDF appears to be empty or contains only images (no extractable text)"}
	}

	return normalize(text), nil
}

func plainText(data []byte) (string, error) {
	text := strings.ToValidUTF8(string(data), "�")
	if strings.TrimSpace(text) == "" {
		return "", &Error{Reason: ReasonEmpty, Message: "file contains no text"}
	}
	return normalize(text), nil
}

func normalize(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
