package dto

import "encoding/json"

// EmptyRequest is the input of routes that take no body.
type EmptyRequest struct{}

// PatchRequest is an RFC 6902 JSON Patch document, applied by the service layer.
type PatchRequest = json.RawMessage
