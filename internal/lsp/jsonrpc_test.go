package lsp

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"testing"
)

func TestReadMessage(t *testing.T) {
	payload := `{"jsonrpc":"2.0","method":"initialize"}`
	input := "Content-Length: " + strconv.Itoa(len(payload)) + "\r\n\r\n" + payload
	got, err := readMessage(bufio.NewReader(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("readMessage: %v", err)
	}
	if string(got) != payload {
		t.Errorf("payload = %q", got)
	}
}

func TestReadMessageMissingLength(t *testing.T) {
	input := "Content-Type: application/json\r\n\r\n{}"
	if _, err := readMessage(bufio.NewReader(strings.NewReader(input))); err == nil {
		t.Error("expected an error for a missing Content-Length")
	}
}

func TestWriteMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"id":1}`)
	if err := writeMessage(&buf, payload); err != nil {
		t.Fatalf("writeMessage: %v", err)
	}
	got, err := readMessage(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("readMessage: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("round trip = %q", got)
	}
}
