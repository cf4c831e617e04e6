package datauri

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestEncodeDetectsMediaType(t *testing.T) {
	uri := Encode(pngHeader)
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("Encode(png) = %q, want image/png base64 prefix", uri)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"png", pngHeader},
		{"text", []byte("hello scan")},
		{"binary", []byte{0, 1, 2, 3, 254, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got, err := Decode(Encode(tt.data))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Fatalf("round trip = %v, want %v", got, tt.data)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		in       string
		wantType string
		wantData string
		wantErr  error
	}{
		{"data:image/jpeg;base64,aGk=", "image/jpeg", "hi", nil},
		{"data:text/plain;charset=utf-8;base64,aGk=", "text/plain", "hi", nil},
		{"data:,hello%20world", "text/plain", "hello world", nil},
		{"image/png;base64,aGk=", "", "", ErrNotDataURI},
		{"data:image/png;base64", "", "", ErrMissingComma},
	}

	for _, tt := range tests {
		gotType, gotData, err := Decode(tt.in)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Decode(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Decode(%q) unexpected error: %v", tt.in, err)
		}
		if gotType != tt.wantType || string(gotData) != tt.wantData {
			t.Fatalf("Decode(%q) = (%q, %q), want (%q, %q)", tt.in, gotType, gotData, tt.wantType, tt.wantData)
		}
	}
}

func TestDecodeRejectsBadBase64(t *testing.T) {
	if _, _, err := Decode("data:image/png;base64,@@@"); err == nil {
		t.Fatal("Decode with invalid base64 payload returned nil error")
	}
}
