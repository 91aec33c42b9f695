package vapi

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrInvalidPayload indicates a remote response that does not have the
// expected assistant shape.
var ErrInvalidPayload = errors.New("invalid vapi payload")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPayload, fmt.Sprintf(format, args...))
}

// DecodeAssistant validates raw against the assistant shape and decodes it.
// The id must be a string. Functions under model.functions and under
// model.tools[type=function].function must be objects with a string name
// and, when present, an object parameters.properties.
func DecodeAssistant(raw []byte) (*Assistant, error) {
	if !gjson.ValidBytes(raw) {
		return nil, invalid("malformed json")
	}
	if err := validateAssistant(gjson.ParseBytes(raw)); err != nil {
		return nil, err
	}

	var a Assistant
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &a, nil
}

// DecodeAssistants validates and decodes a JSON array of assistants.
func DecodeAssistants(raw []byte) ([]Assistant, error) {
	if !gjson.ValidBytes(raw) {
		return nil, invalid("malformed json")
	}
	root := gjson.ParseBytes(raw)
	if !root.IsArray() {
		return nil, invalid("expected array of assistants")
	}

	var err error
	root.ForEach(func(key, value gjson.Result) bool {
		if e := validateAssistant(value); e != nil {
			err = fmt.Errorf("assistant %d: %w", key.Int(), e)
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	var list []Assistant
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return list, nil
}

func validateAssistant(a gjson.Result) error {
	if !a.IsObject() {
		return invalid("assistant must be an object")
	}
	if id := a.Get("id"); id.Type != gjson.String || id.String() == "" {
		return invalid("id must be a non-empty string")
	}
	for _, field := range []string{"name", "firstMessage", "serverUrl"} {
		if v := a.Get(field); v.Exists() && v.Type != gjson.String && v.Type != gjson.Null {
			return invalid("%s must be a string", field)
		}
	}

	model := a.Get("model")
	if !model.Exists() || model.Type == gjson.Null {
		return nil
	}
	if !model.IsObject() {
		return invalid("model must be an object")
	}

	if fns := model.Get("functions"); fns.Exists() && fns.Type != gjson.Null {
		if !fns.IsArray() {
			return invalid("model.functions must be an array")
		}
		for i, fn := range fns.Array() {
			if err := validateFunction(fn); err != nil {
				return fmt.Errorf("model.functions[%d]: %w", i, err)
			}
		}
	}

	if tools := model.Get("tools"); tools.Exists() && tools.Type != gjson.Null {
		if !tools.IsArray() {
			return invalid("model.tools must be an array")
		}
		for i, tool := range tools.Array() {
			if !tool.IsObject() {
				return invalid("model.tools[%d] must be an object", i)
			}
			if tool.Get("type").String() != ToolTypeFunction {
				continue
			}
			if err := validateFunction(tool.Get("function")); err != nil {
				return fmt.Errorf("model.tools[%d].function: %w", i, err)
			}
		}
	}

	return nil
}

func validateFunction(fn gjson.Result) error {
	if !fn.IsObject() {
		return invalid("function must be an object")
	}
	if name := fn.Get("name"); name.Type != gjson.String || name.String() == "" {
		return invalid("function name must be a non-empty string")
	}

	params := fn.Get("parameters")
	if !params.Exists() || params.Type == gjson.Null {
		return nil
	}
	if !params.IsObject() {
		return invalid("parameters must be an object")
	}
	if props := params.Get("properties"); props.Exists() && props.Type != gjson.Null && !props.IsObject() {
		return invalid("parameters.properties must be an object")
	}
	if req := params.Get("required"); req.Exists() && req.Type != gjson.Null {
		if !req.IsArray() {
			return invalid("parameters.required must be an array")
		}
		for _, r := range req.Array() {
			if r.Type != gjson.String {
				return invalid("parameters.required must contain strings")
			}
		}
	}
	return nil
}
