package agent

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "bare object", raw: `{"a": 1}`, want: `{"a": 1}`},
		{name: "fenced object", raw: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "prose wrapped", raw: `Sure! {"a": 1} Hope that helps.`, want: `{"a": 1}`},
		{name: "nested braces", raw: `{"a": {"b": 2}}`, want: `{"a": {"b": 2}}`},
		{name: "no object", raw: "no json here", wantErr: true},
		{name: "reversed braces", raw: "} {", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("extractJSON(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecodeStrict(t *testing.T) {
	var out struct {
		Thought string `json:"thought"`
		Score   float64 `json:"score"`
	}

	if err := decodeStrict(`verdict: {"thought": "solid", "score": 88}`, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Thought != "solid" || out.Score != 88 {
		t.Errorf("decoded = %+v", out)
	}

	if err := decodeStrict(`{"thought": broken`, &out); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
