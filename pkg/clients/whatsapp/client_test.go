package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mamadbah2/ricemill/internal/config"
)

func TestSendText(t *testing.T) {
	var got textMessage
	var auth, path string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.123"}]}`))
	}))
	defer srv.Close()

	client := NewClient(config.WhatsAppConfig{BaseURL: srv.URL + "/", APIVersion: "v20.0", AccessToken: "secret", PhoneNumberID: "555"})

	id, err := client.SendText(context.Background(), "919800000000", "Pending lots: 2")
	if err != nil {
		t.Fatalf("SendText failed: %v", err)
	}
	if id != "wamid.123" {
		t.Errorf("Expected message id wamid.123, got %s", id)
	}
	if path != "/v20.0/555/messages" {
		t.Errorf("Unexpected path %s", path)
	}
	if auth != "Bearer secret" {
		t.Errorf("Unexpected authorization header %q", auth)
	}
	if got.MessagingProduct != "whatsapp" || got.To != "919800000000" || got.Text.Body != "Pending lots: 2" {
		t.Errorf("Unexpected payload %+v", got)
	}
}

func TestSendText_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","code":190}}`))
	}))
	defer srv.Close()

	client := NewClient(config.WhatsAppConfig{BaseURL: srv.URL, APIVersion: "v20.0", AccessToken: "bad", PhoneNumberID: "555"})

	_, err := client.SendText(context.Background(), "91", "hello")
	if !errors.Is(err, ErrAPI) {
		t.Fatalf("Expected ErrAPI, got %v", err)
	}
}
