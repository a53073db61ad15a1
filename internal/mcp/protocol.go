// Package mcp implements the external tool process protocol: providers
// are child processes exposing named tools over newline-delimited JSON
// on their standard input and output. Exchanges are strictly
// synchronous and one-at-a-time per provider.
package mcp

import "encoding/json"

// Method discriminates request variants on the wire.
type Method string

const (
	// MethodListTools asks a provider for its tool descriptors.
	MethodListTools Method = "tools/list"
	// MethodCallTool invokes a named tool with arguments.
	MethodCallTool Method = "tools/call"
	// MethodListPrompts asks a provider for its prompt descriptors.
	MethodListPrompts Method = "prompts/list"
	// MethodGetPrompt fetches a named prompt.
	MethodGetPrompt Method = "prompts/get"
	// MethodListResources asks a provider for its resource descriptors.
	MethodListResources Method = "resources/list"
	// MethodReadResource reads a resource by URI.
	MethodReadResource Method = "resources/read"
)

// Request is one protocol request. Method selects the variant; the
// remaining fields are populated per method and omitted otherwise.
type Request struct {
	// Method is the request discriminator.
	Method Method `json:"method"`
	// Name is the tool or prompt name for tools/call and prompts/get.
	Name string `json:"name,omitempty"`
	// Arguments holds call arguments for tools/call and prompts/get.
	Arguments map[string]any `json:"arguments,omitempty"`
	// URI is the resource URI for resources/read.
	URI string `json:"uri,omitempty"`
}

// NewListToolsRequest builds a tools/list request.
func NewListToolsRequest() *Request {
	return &Request{Method: MethodListTools}
}

// NewCallToolRequest builds a tools/call request.
func NewCallToolRequest(name string, arguments map[string]any) *Request {
	return &Request{Method: MethodCallTool, Name: name, Arguments: arguments}
}

// Response is one protocol response. A response with Success=false
// never carries a result; a successful response to a data-returning
// call must carry one.
type Response struct {
	// Success indicates whether the remote operation succeeded.
	Success bool `json:"success"`
	// Result carries the operation's value when Success is true.
	Result json.RawMessage `json:"result,omitempty"`
	// Error is the remote failure message when Success is false.
	Error string `json:"error,omitempty"`
}

// Tool describes one capability a provider exposes.
type Tool struct {
	// Name is the tool's unique name within its provider.
	Name string `json:"name"`
	// Description says what the tool does.
	Description string `json:"description"`
	// Parameters maps parameter names to their schemas.
	Parameters map[string]ParameterSchema `json:"parameters,omitempty"`
}

// ParameterSchema describes one tool parameter.
type ParameterSchema struct {
	// Type is the parameter's JSON type.
	Type string `json:"type"`
	// Description says what the parameter means.
	Description string `json:"description,omitempty"`
	// Required indicates the parameter must be supplied.
	Required bool `json:"required,omitempty"`
	// Default is the value used when the parameter is omitted.
	Default any `json:"default,omitempty"`
}

// Prompt describes a provider-exposed prompt template.
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// PromptArgument describes one prompt template argument.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// Resource describes a provider-exposed resource.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
}
