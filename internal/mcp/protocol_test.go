package mcp

import (
	"encoding/json"
	"testing"
)

func TestRequestEncoding(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
		want string
	}{
		{
			name: "list tools",
			req:  NewListToolsRequest(),
			want: `{"method":"tools/list"}`,
		},
		{
			name: "call tool",
			req:  NewCallToolRequest("x", map[string]any{"a": 1}),
			want: `{"method":"tools/call","name":"x","arguments":{"a":1}}`,
		},
		{
			name: "read resource",
			req:  &Request{Method: MethodReadResource, URI: "file:///tmp/a"},
			want: `{"method":"resources/read","uri":"file:///tmp/a"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.req)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("encoded = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResponseDecoding(t *testing.T) {
	var ok Response
	if err := json.Unmarshal([]byte(`{"success":true,"result":{"ok":true}}`), &ok); err != nil {
		t.Fatalf("unmarshal success response: %v", err)
	}
	if !ok.Success || ok.Result == nil || ok.Error != "" {
		t.Errorf("unexpected success response: %+v", ok)
	}

	var failed Response
	if err := json.Unmarshal([]byte(`{"success":false,"error":"boom"}`), &failed); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	if failed.Success || failed.Result != nil || failed.Error != "boom" {
		t.Errorf("unexpected error response: %+v", failed)
	}
}

func TestToolDecoding(t *testing.T) {
	raw := `{
		"name": "search",
		"description": "Search the index",
		"parameters": {
			"query": {"type": "string", "description": "search terms", "required": true},
			"limit": {"type": "integer", "default": 10}
		}
	}`

	var tool Tool
	if err := json.Unmarshal([]byte(raw), &tool); err != nil {
		t.Fatalf("unmarshal tool: %v", err)
	}

	if tool.Name != "search" {
		t.Errorf("name = %q, want search", tool.Name)
	}
	query, ok := tool.Parameters["query"]
	if !ok || query.Type != "string" || !query.Required {
		t.Errorf("unexpected query parameter: %+v", query)
	}
	limit := tool.Parameters["limit"]
	if limit.Default == nil {
		t.Error("limit default missing")
	}
}
