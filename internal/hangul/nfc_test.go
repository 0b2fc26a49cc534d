package hangul

import "testing"

func TestComposeNFC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already NFC", "사랑", "사랑"},
		{"empty", "", ""},
		{"ascii only", "hello world", "hello world"},
		{"conjoining jamo", "\u1109\u1161\u1105\u1161\u11bc", "사랑"},
		{"open syllable", "\u1112\u1161", "하"},
		{"mixed", "\u1112\u1161 사랑", "하 사랑"},
		{"compatibility jamo untouched", "ㅋㅋㅋ", "ㅋㅋㅋ"},
		{"latin combining", "cafe\u0301", "café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ComposeNFC(tt.input); got != tt.want {
				t.Errorf("ComposeNFC(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
