// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"strings"
	"testing"
)

func entryWith(id string, deps, conflicts []string) Entry {
	return Entry{
		Path: "/bundles/" + id,
		Descriptor: Descriptor{
			ID:           id,
			Name:         id,
			Dependencies: deps,
			Conflicts:    conflicts,
		},
	}
}

func TestCheckCompatibility(t *testing.T) {
	tests := []struct {
		name     string
		selected []Entry
		wantIn   []string
	}{
		{
			name: "clean selection",
			selected: []Entry{
				entryWith("react", []string{"typescript"}, nil),
				entryWith("typescript", nil, nil),
			},
		},
		{
			name: "missing dependency",
			selected: []Entry{
				entryWith("react", []string{"typescript"}, nil),
			},
			wantIn: []string{"react depends on typescript"},
		},
		{
			name: "conflict",
			selected: []Entry{
				entryWith("react", nil, []string{"vue"}),
				entryWith("vue", nil, nil),
			},
			wantIn: []string{"react conflicts with vue"},
		},
		{
			name: "multiple problems reported together",
			selected: []Entry{
				entryWith("react", []string{"typescript"}, []string{"vue"}),
				entryWith("vue", nil, nil),
			},
			wantIn: []string{"react depends on typescript", "react conflicts with vue"},
		},
		{
			name:     "empty selection is compatible",
			selected: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCompatibility(tt.selected)
			if len(tt.wantIn) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var incompatible *IncompatibleError
			if !errors.As(err, &incompatible) {
				t.Fatalf("expected IncompatibleError, got %T", err)
			}
			for _, want := range tt.wantIn {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q should contain %q", err, want)
				}
			}
			if len(incompatible.Problems) != len(tt.wantIn) {
				t.Errorf("problems = %v, want %d entries", incompatible.Problems, len(tt.wantIn))
			}
		})
	}
}
