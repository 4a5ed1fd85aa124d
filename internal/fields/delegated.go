package fields

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"cv-backend/internal/cvs"
	"cv-backend/internal/llm"
)

// StrategyLLM names the delegated strategy in config and metrics.
const StrategyLLM = "llm"

const (
	DefaultTemperature float32 = 0.2
	DefaultMaxTokens           = 1500
)

const instruction = `You extract structured data from CV text.
Reply with a single JSON object and nothing else, using exactly these keys:
"Name" (string), "Email" (string), "Phone" (string), "Skills" (array of strings),
"totalExperience" (string, e.g. "5 years"),
"Experience" (array of {"Company", "JobTitle", "Duration"}),
"Education" (array of {"Degree", "University", "Year"}),
"Projects" (array of {"Title", "Description"}).
Use null for values that are not present in the text and [] for empty lists.`

// replySchema applies to the reply after keys are folded to lowercase.
const replySchema = `{
  "type": "object",
  "$defs": {
    "scalar": {"type": ["string", "number", "null"]},
    "entries": {
      "type": ["array", "null"],
      "items": {"type": ["object", "string", "null"]}
    }
  },
  "properties": {
    "name": {"$ref": "#/$defs/scalar"},
    "email": {"$ref": "#/$defs/scalar"},
    "phone": {"$ref": "#/$defs/scalar"},
    "totalexperience": {"$ref": "#/$defs/scalar"},
    "skills": {
      "type": ["array", "string", "null"],
      "items": {"type": ["string", "number", "null"]}
    },
    "experience": {"$ref": "#/$defs/entries"},
    "education": {"$ref": "#/$defs/entries"},
    "projects": {"$ref": "#/$defs/entries"}
  }
}`

var compiledReplySchema = mustCompileSchema(replySchema)

func mustCompileSchema(src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("cv-reply.json", strings.NewReader(src)); err != nil {
		panic(fmt.Sprintf("add schema: %v", err))
	}
	schema, err := compiler.Compile("cv-reply.json")
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return schema
}

// Delegated forwards the text to an LLM and decodes its JSON reply.
// A failed call is not retried.
type Delegated struct {
	Client      llm.Client
	Temperature float32
	MaxTokens   int
}

// NewDelegated constructs a Delegated strategy with default sampling settings
// where the arguments are zero.
func NewDelegated(client llm.Client, temperature float32, maxTokens int) *Delegated {
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Delegated{Client: client, Temperature: temperature, MaxTokens: maxTokens}
}

// Extract implements cvs.FieldExtractor.
func (d *Delegated) Extract(ctx context.Context, text string) (cvs.Candidate, error) {
	reply, err := d.Client.Complete(ctx, llm.Request{
		System:      instruction,
		User:        text,
		Temperature: d.Temperature,
		MaxTokens:   d.MaxTokens,
		JSON:        true,
	})
	if errors.Is(err, llm.ErrEmptyReply) {
		return nil, fmt.Errorf("%w: %w", cvs.ErrMalformedServiceReply, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cvs.ErrServiceUnavailable, err)
	}
	return ParseReply(reply)
}

// ParseReply decodes a service reply, tolerating a wrapping code fence.
func ParseReply(reply string) (cvs.Candidate, error) {
	payload := stripCodeFence(reply)
	if payload == "" {
		return nil, fmt.Errorf("%w: empty reply", cvs.ErrMalformedServiceReply)
	}

	var decoded any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", cvs.ErrMalformedServiceReply, err)
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: reply is not a JSON object", cvs.ErrMalformedServiceReply)
	}
	if err := compiledReplySchema.Validate(cvs.FoldKeys(obj)); err != nil {
		return nil, fmt.Errorf("%w: %v", cvs.ErrMalformedServiceReply, err)
	}
	return cvs.Candidate(obj), nil
}

// stripCodeFence removes a surrounding ``` or ```json fence, on one line or several.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop the info string, e.g. "json"
	end := 0
	for end < len(s) && isInfoChar(s[end]) {
		end++
	}
	s = s[end:]
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isInfoChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '-' || b == '_'
}

var _ cvs.FieldExtractor = (*Delegated)(nil)
