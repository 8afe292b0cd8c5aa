// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"io"
	"mime"
	"reflect"

	"github.com/ugorji/go/codec"
)

// JSONHandle returns a codec handle for the JSON wire format.  Objects
// decode into map[string]interface{} rather than the codec default.
func JSONHandle() *codec.JsonHandle {
	json := &codec.JsonHandle{}
	json.MapType = reflect.TypeOf(map[string]interface{}(nil))
	return json
}

// Decode tries to decode a restdata object from a reader, such as an
// HTTP request or response.  out must be a pointer type.
func Decode(contentType string, r io.Reader, out interface{}) error {
	if contentType == "" {
		// RFC 7231 section 3.1.1.5
		contentType = "application/octet-stream"
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return err
	}

	// Promote to more specific types
	switch mediaType {
	case "text/json", "application/json", JSONMediaType, V1JSONMediaType:
		mediaType = V1JSONMediaType
	default:
		return ErrUnsupportedMediaType{Type: mediaType}
	}

	decoder := codec.NewDecoder(r, JSONHandle())
	return decoder.Decode(out)
}

// Encode writes the JSON representation of in to w.
func Encode(w io.Writer, in interface{}) error {
	encoder := codec.NewEncoder(w, JSONHandle())
	return encoder.Encode(in)
}

// Marshal returns the JSON representation of in.
func Marshal(in interface{}) ([]byte, error) {
	var out []byte
	encoder := codec.NewEncoderBytes(&out, JSONHandle())
	err := encoder.Encode(in)
	return out, err
}

// Unmarshal decodes JSON data into out, which must be of pointer type.
func Unmarshal(data []byte, out interface{}) error {
	decoder := codec.NewDecoderBytes(data, JSONHandle())
	return decoder.Decode(out)
}
