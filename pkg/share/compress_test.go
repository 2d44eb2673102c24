package share

import (
	"bytes"
	"strings"
	"testing"

	errs "github.com/matzehuels/situationroom/pkg/errors"
)

func TestPackRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte(`{"v":1,"w":[]}`)},
		{"repetitive", []byte(strings.Repeat(`{"t":"n","l":[0,0,4,5],"c":{}},`, 50))},
		{"binary", []byte{0, 1, 2, 3, 255, 254}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := Pack(tt.data)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Unpack(token)
			if tt.name == "empty" {
				// An empty payload still carries the format byte.
				if err != nil || len(got) != 0 {
					t.Fatalf("Unpack = %q, %v", got, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Errorf("Unpack = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestPackCompressesRepetitiveData(t *testing.T) {
	data := []byte(strings.Repeat(`{"t":"e","l":[0,0,4,5],"c":{"q":"earthquake"}},`, 40))
	token, err := Pack(data)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := encoding.DecodeString(token)
	if raw[0] != formatLZ4 {
		t.Fatalf("format = %#x, want lz4", raw[0])
	}
	if len(token) >= len(encoding.EncodeToString(data)) {
		t.Errorf("token (%d) not shorter than plain base64 (%d)", len(token), len(encoding.EncodeToString(data)))
	}
}

func TestPackTooLarge(t *testing.T) {
	_, err := Pack(make([]byte, MaxPayloadSize+1))
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestUnpackRejectsOversizedHeader(t *testing.T) {
	token := encoding.EncodeToString([]byte{formatLZ4, 0xff, 0xff, 0xff, 0x7f, 0x00})
	_, err := Unpack(token)
	if !errs.Is(err, errs.ErrCodeInvalidToken) {
		t.Errorf("error = %v, want INVALID_TOKEN", err)
	}
}
