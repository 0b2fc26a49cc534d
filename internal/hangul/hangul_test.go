package hangul

import "testing"

func TestDecompose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   rune
		want Char
		ok   bool
	}{
		{'가', Char{'ㄱ', 'ㅏ', NoCoda}, true},
		{'랑', Char{'ㄹ', 'ㅏ', 'ㅇ'}, true},
		{'힣', Char{'ㅎ', 'ㅣ', 'ㅎ'}, true},
		{'읽', Char{'ㅇ', 'ㅣ', 'ㄺ'}, true},
		{'니', Char{'ㄴ', 'ㅣ', NoCoda}, true},
		{'ㅋ', Char{}, false},
		{'a', Char{}, false},
	}
	for _, tt := range tests {
		got, ok := Decompose(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Decompose(%q) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestComposeRoundTrip(t *testing.T) {
	t.Parallel()

	for r := rune(syllableBase); r <= syllableLast; r += 97 {
		c, ok := Decompose(r)
		if !ok {
			t.Fatalf("Decompose(%q) failed", r)
		}
		back, ok := ComposeChar(c)
		if !ok || back != r {
			t.Fatalf("ComposeChar(%+v) = %q, %v; want %q", c, back, ok, r)
		}
	}
}

func TestCompose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		onset, vowel, coda rune
		want               rune
		ok                 bool
	}{
		{'ㅎ', 'ㅕ', 'ㄴ', '현', true},
		{'ㄷ', 'ㅙ', NoCoda, '돼', true},
		{'ㄸ', 'ㅏ', 'ㄸ', 0, false}, // ㄸ is never a coda
		{'ㅏ', 'ㅏ', NoCoda, 0, false},
	}
	for _, tt := range tests {
		got, ok := Compose(tt.onset, tt.vowel, tt.coda)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Compose(%q,%q,%q) = %q, %v; want %q, %v", tt.onset, tt.vowel, tt.coda, got, ok, tt.want, tt.ok)
		}
	}
}

func TestHasCoda(t *testing.T) {
	t.Parallel()

	tests := map[rune]bool{'랑': true, '사': false, '을': true, 'a': false, 'ㄱ': false}
	for r, want := range tests {
		if got := HasCoda(r); got != want {
			t.Errorf("HasCoda(%q) = %v, want %v", r, got, want)
		}
	}
}

func TestCanBeCoda(t *testing.T) {
	t.Parallel()

	for _, r := range []rune{'ㄱ', 'ㄴ', 'ㅇ', 'ㅎ', 'ㅆ'} {
		if !CanBeCoda(r) {
			t.Errorf("CanBeCoda(%q) = false, want true", r)
		}
	}
	for _, r := range []rune{'ㄸ', 'ㅃ', 'ㅉ', 'ㅏ', 0} {
		if CanBeCoda(r) {
			t.Errorf("CanBeCoda(%q) = true, want false", r)
		}
	}
}

func TestIsJamo(t *testing.T) {
	t.Parallel()

	if !IsJamo('ㅋ') || !IsJamo('ㅣ') || IsJamo('가') {
		t.Error("IsJamo classification mismatch")
	}
}
