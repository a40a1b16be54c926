// SPDX-License-Identifier: MPL-2.0

package bundlefile

import "testing"

func TestCheckScript(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		body     string
		wantErr  bool
	}{
		{
			name:     "valid sh",
			fileName: "format.sh",
			body:     "#!/bin/sh\ngofmt -w .\n",
		},
		{
			name:     "valid bash with function",
			fileName: "check.bash",
			body:     "run() {\n  make test\n}\nrun\n",
		},
		{
			name:     "unterminated if",
			fileName: "broken.sh",
			body:     "if true; then\necho hi\n",
			wantErr:  true,
		},
		{
			name:     "unclosed quote",
			fileName: "quote.sh",
			body:     "echo \"unclosed\n",
			wantErr:  true,
		},
		{
			name:     "python is opaque",
			fileName: "hook.py",
			body:     "if True\n  pass\n",
		},
		{
			name:     "extensionless with shell shebang",
			fileName: "pre-commit",
			body:     "#!/bin/bash\nif true; then echo ok; fi\n",
		},
		{
			name:     "extensionless broken shebang script",
			fileName: "pre-commit",
			body:     "#!/bin/bash\nif true; then\n",
			wantErr:  true,
		},
		{
			name:     "extensionless without shebang is opaque",
			fileName: "data",
			body:     "this is ( not shell\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckScript(tt.fileName, []byte(tt.body))
			if tt.wantErr && err == nil {
				t.Error("expected syntax error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
