package stream

import (
	"encoding/json"
	"fmt"

	"github.com/five82/brandloom/internal/api"
	"github.com/five82/brandloom/internal/model"
)

// Event is one decoded generation event. The concrete types are
// ThemeOptionEvent, PostEvent, CompleteEvent and ErrorEvent.
type Event interface {
	event()
}

// ThemeOptionEvent carries one proposed theme.
type ThemeOptionEvent struct {
	Option model.ThemeOption
	Index  int
	Total  int
}

// PostEvent carries one generated post.
type PostEvent struct {
	Post  model.Post
	Index int
	Total int
}

// CompleteEvent ends a generation successfully.
type CompleteEvent struct {
	Total int
}

// ErrorEvent ends a generation with an application error.
type ErrorEvent struct {
	Message string
}

func (ThemeOptionEvent) event() {}
func (PostEvent) event()        {}
func (CompleteEvent) event()    {}
func (ErrorEvent) event()       {}

// ProtocolError reports a frame that could not be turned into an Event.
type ProtocolError struct {
	Type    string
	Payload string
	Err     error
}

func (e *ProtocolError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("malformed stream frame: %v", e.Err)
	case e.Type == "":
		return "stream frame has no type"
	default:
		return fmt.Sprintf("unknown stream event type %q", e.Type)
	}
}

func (e *ProtocolError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return api.ErrProtocol
}

type frame struct {
	Type         string                  `json:"type"`
	Index        int                     `json:"index"`
	Total        int                     `json:"total"`
	TotalOptions *int                    `json:"total_options"`
	TotalPosts   *int                    `json:"total_posts"`
	Message      string                  `json:"message"`
	Error        json.RawMessage         `json:"error"`
	Theme        *api.ThemeOptionPayload `json:"theme"`
	Post         *api.PostPayload        `json:"post"`
}

// Decode parses the data payload of one SSE frame.
func Decode(data []byte) (Event, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &ProtocolError{Payload: string(data), Err: fmt.Errorf("%w: %v", api.ErrProtocol, err)}
	}

	// An error field is an application failure whatever the type says.
	if msg, ok := errorMessage(f); ok {
		return ErrorEvent{Message: msg}, nil
	}

	switch f.Type {
	case "theme_option":
		if f.Theme == nil {
			return nil, &ProtocolError{Type: f.Type, Payload: string(data), Err: fmt.Errorf("%w: theme_option without theme", api.ErrProtocol)}
		}
		return ThemeOptionEvent{Option: api.ThemeOptionFromWire(*f.Theme), Index: f.Index, Total: f.Total}, nil
	case "post":
		if f.Post == nil {
			return nil, &ProtocolError{Type: f.Type, Payload: string(data), Err: fmt.Errorf("%w: post without post", api.ErrProtocol)}
		}
		return PostEvent{Post: api.PostFromWire(*f.Post), Index: f.Index, Total: f.Total}, nil
	case "complete":
		total := f.Total
		if f.TotalOptions != nil {
			total = *f.TotalOptions
		}
		if f.TotalPosts != nil {
			total = *f.TotalPosts
		}
		return CompleteEvent{Total: total}, nil
	case "error":
		return ErrorEvent{Message: "generation failed"}, nil
	default:
		return nil, &ProtocolError{Type: f.Type, Payload: string(data)}
	}
}

func errorMessage(f frame) (string, bool) {
	if len(f.Error) > 0 && string(f.Error) != "null" {
		var s string
		if json.Unmarshal(f.Error, &s) == nil {
			if s == "" {
				s = f.Message
			}
			if s == "" {
				s = "generation failed"
			}
			return s, true
		}
		return string(f.Error), true
	}
	if f.Type == "error" && f.Message != "" {
		return f.Message, true
	}
	return "", false
}
