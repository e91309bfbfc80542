package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIsNotification(t *testing.T) {
	withID := &Request{JSONRPC: Version, Method: "ping", ID: float64(1)}
	assert.False(t, withID.IsNotification())

	withoutID := &Request{JSONRPC: Version, Method: "notifications/initialized"}
	assert.True(t, withoutID.IsNotification())
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"valid", Request{JSONRPC: "2.0", Method: "ping"}, false},
		{"wrong version", Request{JSONRPC: "1.0", Method: "ping"}, true},
		{"empty method", Request{JSONRPC: "2.0", Method: ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewResponseExactlyOneOfResultOrError(t *testing.T) {
	success := NewResponse(1, map[string]string{"ok": "true"})
	assert.NotNil(t, success.Result)
	assert.Nil(t, success.Error)

	failure := NewErrorResponse(1, ParseError(nil))
	assert.Nil(t, failure.Result)
	assert.NotNil(t, failure.Error)
}

func TestResponseMarshalsOmitsAbsentFields(t *testing.T) {
	resp := NewResponse(2, 42)
	data, err := json.Marshal(resp)
	assert.NoError(t, err)

	var raw map[string]interface{}
	assert.NoError(t, json.Unmarshal(data, &raw))
	_, hasError := raw["error"]
	assert.False(t, hasError)
	assert.Equal(t, float64(2), raw["id"])
}

func TestNotificationHasNoID(t *testing.T) {
	n := NewNotification("notifications/tools/list_changed", nil)
	data, err := json.Marshal(n)
	assert.NoError(t, err)

	var raw map[string]interface{}
	assert.NoError(t, json.Unmarshal(data, &raw))
	_, hasID := raw["id"]
	assert.False(t, hasID)
}

func TestErrorCodesAreWireExact(t *testing.T) {
	assert.Equal(t, -32700, ParseErrorCode)
	assert.Equal(t, -32600, InvalidRequestCode)
	assert.Equal(t, -32601, MethodNotFoundCode)
	assert.Equal(t, -32602, InvalidParamsCode)
	assert.Equal(t, -32603, InternalErrorCode)
	assert.Equal(t, -32002, ResourceNotFoundCode)
}
