// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Widget: {
	id:       string & =~"^[a-z][a-z0-9-]*$"
	priority: int & >=-10 & <=10
	tags?: [...string]
}
`

type widget struct {
	ID       string   `json:"id"`
	Priority int      `json:"priority"`
	Tags     []string `json:"tags,omitempty"`
}

func TestDecode(t *testing.T) {
	data := []byte(`{id: "my-widget", priority: 3, tags: ["a", "b"]}`)
	got, err := Decode[widget](testSchema, data, "#Widget", "widget.cue")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "my-widget" || got.Priority != 3 || len(got.Tags) != 2 {
		t.Errorf("decoded = %+v", got)
	}
}

func TestDecodeJSONInput(t *testing.T) {
	// JSON is a subset of CUE, so JSON documents validate directly.
	data := []byte(`{"id": "w", "priority": 0}`)
	got, err := Decode[widget](testSchema, data, "#Widget", "widget.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "w" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestDecodeViolations(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad id pattern", `{id: "My Widget", priority: 0}`},
		{"priority out of range", `{id: "w", priority: 99}`},
		{"wrong type", `{id: "w", priority: "high"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode[widget](testSchema, []byte(tt.data), "#Widget", "widget.cue")
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), "widget.cue") {
				t.Errorf("error should name the file: %v", err)
			}
		})
	}
}

func TestDecodeBadSyntax(t *testing.T) {
	if _, err := Decode[widget](testSchema, []byte(`{id: `), "#Widget", "widget.cue"); err == nil {
		t.Fatal("expected syntax error, got nil")
	}
}

func TestDecodeMissingDefinition(t *testing.T) {
	_, err := Decode[widget](testSchema, []byte(`{}`), "#Nope", "widget.cue")
	if err == nil || !strings.Contains(err.Error(), "#Nope") {
		t.Fatalf("expected missing-definition error, got %v", err)
	}
}

func TestDecodeSizeLimit(t *testing.T) {
	big := make([]byte, MaxFileSize+1)
	if _, err := Decode[widget](testSchema, big, "#Widget", "huge.cue"); err == nil {
		t.Fatal("expected size error, got nil")
	}
}

func TestCheck(t *testing.T) {
	if err := Check(testSchema, widget{ID: "ok-widget", Priority: 5}, "#Widget", "widget.toml"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := Check(testSchema, widget{ID: "Bad Id", Priority: 5}, "#Widget", "widget.toml")
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "widget.toml") {
		t.Errorf("error should name the file: %v", err)
	}
}
