package services

import (
	"bytes"
	"testing"
)

func TestParticipantURL(t *testing.T) {
	links := NewShareLinks("https://santa.example.com/")

	got := links.ParticipantURL(12, "jose-perez")
	want := "https://santa.example.com/g/12/jose-perez"
	if got != want {
		t.Errorf("ParticipantURL = %q, want %q", got, want)
	}
}

func TestQRCodeIsPNG(t *testing.T) {
	links := NewShareLinks("http://localhost:8080")

	for _, size := range []int{0, 128, 5000} {
		png, err := links.QRCode(links.ParticipantURL(1, "ana"), size)
		if err != nil {
			t.Fatalf("size %d: unexpected error: %v", size, err)
		}
		if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
			t.Fatalf("size %d: output is not a PNG", size)
		}
	}
}
