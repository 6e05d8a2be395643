package hash

import "testing"

func TestDigest(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{input: "type A {}\ntype B {}\n", want: "sha256:3be9ca2beae58a5561ee5d463bc9f86bd78bb3873b9a27f0a32eca28b94ec0ff"},
	}

	for _, tt := range tests {
		if got := (SHA256{}).Digest([]byte(tt.input)); got != tt.want {
			t.Fatalf("Digest(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
