package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func runScript(t *testing.T, messages ...string) ([]rpcMessage, error) {
	t.Helper()
	var in bytes.Buffer
	for _, m := range messages {
		if err := writeMessage(&in, []byte(m)); err != nil {
			t.Fatalf("writeMessage: %v", err)
		}
	}
	var out bytes.Buffer
	server := NewServer(&in, &out, ServerOptions{})
	err := server.Run(t.Context())

	var responses []rpcMessage
	reader := bufio.NewReader(&out)
	for {
		payload, readErr := readMessage(reader)
		if readErr != nil {
			break
		}
		var msg rpcMessage
		if jsonErr := json.Unmarshal(payload, &msg); jsonErr != nil {
			t.Fatalf("bad response payload %q: %v", payload, jsonErr)
		}
		responses = append(responses, msg)
	}
	return responses, err
}

func TestServerLifecycle(t *testing.T) {
	responses, err := runScript(t,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"shutdown"}`,
		`{"jsonrpc":"2.0","method":"exit"}`,
	)
	if !errors.Is(err, ErrExit) {
		t.Fatalf("err = %v, want ErrExit", err)
	}
	if len(responses) != 2 {
		t.Fatalf("responses = %d", len(responses))
	}
	var result initializeResult
	if err := json.Unmarshal(responses[0].Result, &result); err != nil {
		t.Fatalf("initialize result: %v", err)
	}
	if !result.Capabilities.HoverProvider || result.Capabilities.SemanticTokensProvider == nil {
		t.Errorf("capabilities = %+v", result.Capabilities)
	}
	if got := result.Capabilities.SemanticTokensProvider.Legend.TokenTypes; len(got) != 6 || got[1] != "property" {
		t.Errorf("legend = %v", got)
	}
}

func TestServerPublishesDiagnostics(t *testing.T) {
	responses, err := runScript(t,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{"textDocument":{"uri":"file:///t.mf2","languageId":"mf2","version":1,"text":"Hello, World! \\a"}}}`,
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var publish *publishDiagnosticsParams
	for _, msg := range responses {
		if msg.Method == "textDocument/publishDiagnostics" {
			publish = &publishDiagnosticsParams{}
			if err := json.Unmarshal(msg.Params, publish); err != nil {
				t.Fatalf("params: %v", err)
			}
		}
	}
	if publish == nil {
		t.Fatal("no publishDiagnostics notification")
	}
	if len(publish.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %+v", publish.Diagnostics)
	}
	d := publish.Diagnostics[0]
	if d.Code != "BadEscape" || d.Source != "mf2" || d.Severity != 1 {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.Range.Start != (position{0, 15}) || d.Range.End != (position{0, 16}) {
		t.Errorf("range = %+v", d.Range)
	}
	if !strings.Contains(d.Message, "can not be escaped") {
		t.Errorf("message = %q", d.Message)
	}
}

func TestServerRenameErrors(t *testing.T) {
	open := `{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{"textDocument":{"uri":"file:///t.mf2","languageId":"mf2","version":1,"text":".local $foo = {1} {{}}"}}}`

	// rename at a position with no variable
	responses, err := runScript(t, open,
		`{"jsonrpc":"2.0","id":7,"method":"textDocument/rename","params":{"textDocument":{"uri":"file:///t.mf2"},"position":{"line":0,"character":1},"newName":"bar"}}`,
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireRequestFailed(t, responses, 7, "No variable to rename at the given position.")

	// rename to an invalid name
	responses, err = runScript(t, open,
		`{"jsonrpc":"2.0","id":8,"method":"textDocument/rename","params":{"textDocument":{"uri":"file:///t.mf2"},"position":{"line":0,"character":8},"newName":"123"}}`,
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireRequestFailed(t, responses, 8, "Invalid variable name.")
}

func requireRequestFailed(t *testing.T, responses []rpcMessage, id int, wantMsg string) {
	t.Helper()
	for _, msg := range responses {
		if len(msg.ID) == 0 {
			continue
		}
		var gotID int
		if err := json.Unmarshal(msg.ID, &gotID); err != nil || gotID != id {
			continue
		}
		if msg.Error == nil {
			t.Fatalf("response %d has no error: %+v", id, msg)
		}
		if msg.Error.Code != codeRequestFailed {
			t.Errorf("error code = %d, want %d", msg.Error.Code, codeRequestFailed)
		}
		if msg.Error.Message != wantMsg {
			t.Errorf("error message = %q, want %q", msg.Error.Message, wantMsg)
		}
		return
	}
	t.Fatalf("no response with id %d", id)
}

func TestServerFormatting(t *testing.T) {
	responses, err := runScript(t,
		`{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{"textDocument":{"uri":"file:///t.mf2","languageId":"mf2","version":1,"text":".local $foo = {1} .input {$bar}\n{{Hello {$foo} and {$bar}!}}"}}}`,
		`{"jsonrpc":"2.0","id":3,"method":"textDocument/formatting","params":{"textDocument":{"uri":"file:///t.mf2"}}}`,
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, msg := range responses {
		if len(msg.ID) == 0 || string(msg.ID) != "3" {
			continue
		}
		var edits []textEdit
		if err := json.Unmarshal(msg.Result, &edits); err != nil {
			t.Fatalf("result: %v", err)
		}
		if len(edits) != 1 {
			t.Fatalf("edits = %+v", edits)
		}
		want := ".local $foo = {1}\n.input {$bar}\n{{Hello {$foo} and {$bar}!}}\n"
		if edits[0].NewText != want {
			t.Errorf("formatted = %q, want %q", edits[0].NewText, want)
		}
		return
	}
	t.Fatal("no response with id 3")
}
