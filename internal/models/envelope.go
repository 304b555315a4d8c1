package models

// Envelope is the single-item wire shape shared by every endpoint. Error and
// Data are mutually exclusive: a non-nil Error implies a nil Data.
type Envelope[T any] struct {
	Data  *T      `json:"data"`
	Error *string `json:"error"`
	// Message mirrors Error on non-2xx responses so plain HTTP clients get a
	// human-readable reason.
	Message *string `json:"message,omitempty"`
}

// ListEnvelope is the list wire shape. An empty list with a nil Error is
// legitimate; Count, when present, is the number of items returned.
type ListEnvelope[T any] struct {
	Data    []T     `json:"data"`
	Error   *string `json:"error"`
	Count   *int    `json:"count,omitempty"`
	Message *string `json:"message,omitempty"`
}

func NewEnvelope[T any](data *T) Envelope[T] {
	return Envelope[T]{Data: data}
}

func NewEnvelopeError[T any](msg string) Envelope[T] {
	return Envelope[T]{Error: &msg, Message: &msg}
}

func NewListEnvelope[T any](data []T) ListEnvelope[T] {
	if data == nil {
		data = []T{}
	}
	n := len(data)
	return ListEnvelope[T]{Data: data, Count: &n}
}

func NewListEnvelopeError[T any](msg string) ListEnvelope[T] {
	return ListEnvelope[T]{Error: &msg, Message: &msg}
}
