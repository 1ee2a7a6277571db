package notification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestReactorClient_Post(t *testing.T) {
	var (
		gotMethod, gotType string
		gotMsg             Message
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotMsg)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	msg := BuildMessage(Properties{AccountID: "123456789012", ResourceOwnerRoleARN: "arn:aws:iam::123456789012:role/r"}, "Create")
	text, err := NewReactorClient(5*time.Second, nil).Post(context.Background(), srv.URL, msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != `{"ok":true}` {
		t.Errorf("response text = %q", text)
	}
	if gotMethod != http.MethodPost || gotType != "application/json" {
		t.Errorf("method %q content-type %q", gotMethod, gotType)
	}
	if gotMsg.MessageType != TypeProvisioned || gotMsg.Data.Metadata.CloudAccountID != "123456789012" {
		t.Errorf("server received unexpected message: %+v", gotMsg)
	}
}

func TestReactorClient_NonOKIsError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("queued"))
	}))
	defer srv.Close()

	text, err := NewReactorClient(5*time.Second, nil).Post(context.Background(), srv.URL, Message{})
	if err == nil {
		t.Fatal("expected error for 202 response")
	}
	if text != "queued" {
		t.Errorf("response text = %q; want body returned with the error", text)
	}
	if calls != 1 {
		t.Errorf("calls = %d; delivery must not be retried", calls)
	}
}

func TestReactorClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := NewReactorClient(time.Second, nil).Post(context.Background(), url, Message{}); err == nil {
		t.Error("expected error for closed server")
	}
}

func TestReactorClient_InvalidURL(t *testing.T) {
	if _, err := NewReactorClient(time.Second, nil).Post(context.Background(), "://bad", Message{}); err == nil {
		t.Error("expected error for malformed URL")
	}
}
