package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{name: "plain host", baseURL: "http://localhost:8081", want: "http://localhost:8081"},
		{name: "trailing slash", baseURL: "http://localhost:8081/", want: "http://localhost:8081"},
		{name: "v1 suffix", baseURL: "http://localhost:8081/v1", want: "http://localhost:8081"},
		{name: "v1 suffix with slash", baseURL: "http://localhost:8081/v1/", want: "http://localhost:8081"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.baseURL, "test-key", "test-model")
			if client.BaseURL != tt.want {
				t.Errorf("NewClient() BaseURL = %v, want %v", client.BaseURL, tt.want)
			}
			if client.Model != "test-model" {
				t.Errorf("NewClient() Model = %v, want test-model", client.Model)
			}
			if client.client == nil {
				t.Error("NewClient() client should not be nil")
			}
		})
	}
}

func chatResponse(content string) ChatResponse {
	return ChatResponse{
		ID:     "test-id",
		Object: "chat.completion",
		Choices: []ChatChoice{
			{
				Index:        0,
				Message:      ChatChoiceMessage{Role: "assistant", Content: content},
				FinishReason: "stop",
			},
		},
	}
}

func TestClient_Chat(t *testing.T) {
	tests := []struct {
		name       string
		serverResp func(w http.ResponseWriter, r *http.Request)
		wantReply  string
		wantErr    bool
	}{
		{
			name: "successful chat",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1/chat/completions" {
					t.Errorf("expected /v1/chat/completions, got %s", r.URL.Path)
				}
				if r.Header.Get("Authorization") != "Bearer test-key" {
					t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(chatResponse("Hi there!"))
			},
			wantReply: "Hi there!",
		},
		{
			name: "no choices returned",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(ChatResponse{ID: "test-id"})
			},
			wantErr: true,
		},
		{
			name: "server error",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte("quota exceeded"))
			},
			wantErr: true,
		},
		{
			name: "invalid JSON",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewClient(server.URL, "test-key", "test-model")
			reply, err := client.Chat(context.Background(), "Hello")

			if tt.wantErr {
				if err == nil {
					t.Errorf("Chat() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Chat() unexpected error: %v", err)
				return
			}

			if reply != tt.wantReply {
				t.Errorf("Chat() reply = %v, want %v", reply, tt.wantReply)
			}
		})
	}
}

func TestClient_ChatWithMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req) // Ignore decode error in test

		if len(req.Messages) != 2 {
			t.Errorf("expected 2 messages, got %d", len(req.Messages))
		}
		if req.Model != "custom-model" {
			t.Errorf("expected model custom-model, got %s", req.Model)
		}
		if req.MaxTokens != 100 {
			t.Errorf("expected max_tokens 100, got %d", req.MaxTokens)
		}
		if req.Temperature == nil || *req.Temperature != 0.2 {
			t.Errorf("expected temperature 0.2, got %v", req.Temperature)
		}

		_ = json.NewEncoder(w).Encode(chatResponse("Response"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-model")

	messages := []Message{
		{Role: RoleSystem, Content: "You answer questions about security policies"},
		{Role: RoleUser, Content: "Hello"},
	}

	params := ChatParams{
		Model:       "custom-model",
		MaxTokens:   100,
		Temperature: 0.2,
	}

	reply, err := client.ChatWithMessages(context.Background(), messages, params)
	if err != nil {
		t.Fatalf("ChatWithMessages() error = %v", err)
	}

	if reply != "Response" {
		t.Errorf("ChatWithMessages() reply = %v, want Response", reply)
	}
}

func TestClient_ChatWithMessages_DefaultModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		_ = json.NewDecoder(r.Body).Decode(&raw) // Ignore decode error in test

		if raw["model"] != "test-model" {
			t.Errorf("expected model test-model, got %v", raw["model"])
		}
		if _, ok := raw["temperature"]; ok {
			t.Error("temperature should be omitted when unset")
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("Authorization header should be omitted without an API key")
		}

		_ = json.NewEncoder(w).Encode(chatResponse("Response"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "test-model")

	reply, err := client.ChatWithMessages(context.Background(), []Message{{Role: RoleUser, Content: "Hello"}}, ChatParams{})
	if err != nil {
		t.Fatalf("ChatWithMessages() error = %v", err)
	}

	if reply != "Response" {
		t.Errorf("ChatWithMessages() reply = %v, want Response", reply)
	}
}

func TestClient_ChatWithMessages_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(server.URL, "test-key", "test-model")
	if _, err := client.Chat(ctx, "Hello"); err == nil {
		t.Fatal("Chat() expected deadline error, got nil")
	}
}
