package classify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"bankdocs-backend/internal/documents"
	"bankdocs-backend/internal/llm"
)

type fakeLLM struct {
	response json.RawMessage
	err      error
	gotInput llm.ClassifyInput
}

func (f *fakeLLM) ExtractKYC(ctx context.Context, input llm.ExtractInput) (json.RawMessage, error) {
	return nil, llm.ErrNotImplemented
}

func (f *fakeLLM) Classify(ctx context.Context, input llm.ClassifyInput) (json.RawMessage, error) {
	f.gotInput = input
	return f.response, f.err
}

func TestClassify(t *testing.T) {
	fake := &fakeLLM{response: json.RawMessage(`{"document_type": "cheque", "confidence": 0.92, "reasoning": "MICR line visible"}`)}
	c := NewClassifier(fake)

	docType, confidence, reasoning := c.Classify(context.Background(), []byte("bytes"), "scan.png")
	if docType != documents.TypeCheque {
		t.Errorf("type = %s, want cheque", docType)
	}
	if confidence != 0.92 {
		t.Errorf("confidence = %v", confidence)
	}
	if reasoning != "MICR line visible" {
		t.Errorf("reasoning = %q", reasoning)
	}
	if fake.gotInput.MediaType != "image/png" {
		t.Errorf("media type = %q", fake.gotInput.MediaType)
	}
}

func TestClassifyUnknownType(t *testing.T) {
	fake := &fakeLLM{response: json.RawMessage(`{"document_type": "payslip", "confidence": 0.5}`)}
	c := NewClassifier(fake)
	docType, _, reasoning := c.Classify(context.Background(), nil, "doc.pdf")
	if docType != documents.TypeUnknown {
		t.Errorf("type = %s, want unknown", docType)
	}
	if reasoning != "No reasoning provided" {
		t.Errorf("reasoning = %q", reasoning)
	}
}

func TestClassifyDegradesOnError(t *testing.T) {
	fake := &fakeLLM{err: errors.New("timeout")}
	c := NewClassifier(fake)
	docType, confidence, reasoning := c.Classify(context.Background(), nil, "doc.pdf")
	if docType != documents.TypeUnknown || confidence != 0 {
		t.Errorf("got (%s, %v), want (unknown, 0)", docType, confidence)
	}
	if !strings.Contains(reasoning, "Classification error") {
		t.Errorf("reasoning = %q", reasoning)
	}
}

func TestClassifyDegradesOnBadJSON(t *testing.T) {
	fake := &fakeLLM{response: json.RawMessage("not json at all")}
	c := NewClassifier(fake)
	docType, confidence, _ := c.Classify(context.Background(), nil, "doc.pdf")
	if docType != documents.TypeUnknown || confidence != 0 {
		t.Errorf("got (%s, %v), want (unknown, 0)", docType, confidence)
	}
}

func TestMediaTypeFor(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"scan.pdf", "application/pdf"},
		{"cheque.JPG", "image/jpeg"},
		{"form.jpeg", "image/jpeg"},
		{"id.tiff", "image/tiff"},
		{"photo.bmp", "image/bmp"},
		{"archive.zip", "application/octet-stream"},
		{"noext", "application/octet-stream"},
	}
	for _, tc := range cases {
		if got := MediaTypeFor(tc.filename); got != tc.want {
			t.Errorf("MediaTypeFor(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}
