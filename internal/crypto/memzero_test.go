package crypto

import "testing"

func TestMemzero(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{name: "nil input", input: nil},
		{name: "empty", input: []byte{}},
		{name: "single byte", input: []byte{1}},
		{name: "multiple bytes", input: []byte{1, 2, 3, 4, 5}},
		{name: "large", input: make([]byte, 1024)},
	}
	for i := range tests[4].input {
		tests[4].input[i] = 0xAA
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Memzero(tt.input)
			for i, b := range tt.input {
				if b != 0 {
					t.Fatalf("byte %d not zeroed: got %d", i, b)
				}
			}
		})
	}
}
