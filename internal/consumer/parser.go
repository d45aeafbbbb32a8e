package consumer

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
	"github.com/BarkinBalci/storefront-analytics/internal/queue"
)

//go:embed event.schema.json
var eventSchemaJSON []byte

const eventSchemaURL = "storefront://schema/event.json"

// JSONEventParser implements MessageParser for JSON-formatted event messages.
// Bodies are validated against the queued event schema before decoding.
type JSONEventParser struct {
	schema *jsonschema.Schema
}

// NewJSONEventParser creates a new JSON event parser
func NewJSONEventParser() (*JSONEventParser, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(eventSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal event schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(eventSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add event schema resource: %w", err)
	}

	schema, err := c.Compile(eventSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile event schema: %w", err)
	}

	return &JSONEventParser{schema: schema}, nil
}

// Parse validates and decodes a JSON message body into an Event
func (p *JSONEventParser) Parse(body []byte) (*domain.Event, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	if err := p.schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("message does not match event schema: %w", err)
	}

	var msg queue.EventMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode event message: %w", err)
	}

	return msg.Event(), nil
}
