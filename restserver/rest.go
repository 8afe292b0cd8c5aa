// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

// This file contains a REST skeleton framework.
//
// The bulk of this is dealing with HTTP content type negotiation, and
// providing a standard way to deal with input and output values.
// Every resource in this API is a JSON object or a list of them, so
// input bodies are always decoded as string-keyed maps.

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/diffeo/go-restflux/restdata"
)

var typeMap = map[string]string{
	"text/json":              restdata.V1JSONMediaType,
	"application/json":       restdata.V1JSONMediaType,
	restdata.JSONMediaType:   restdata.V1JSONMediaType,
	restdata.V1JSONMediaType: restdata.V1JSONMediaType,
}

// errBadAccept is returned from negotiateResponse() if the Accept:
// header is malformed (and no more specific error applies).
var errBadAccept = errors.New("Invalid Accept: header")

// errNotAcceptable is returned from negotiateResponse() if the Accept:
// header does not mention any media types we can actually return.
type errNotAcceptable struct{}

func (e errNotAcceptable) Error() string {
	return "No acceptable representation for response"
}

func (e errNotAcceptable) HTTPStatus() int {
	return http.StatusNotAcceptable
}

// errMethodNotAllowed is used within the resourceHandler implementation
// to flag an error if a particular HTTP method is not allowed.  This
// corresponds exactly to the 405 Method Not Allowed HTTP status code.
type errMethodNotAllowed struct {
	Method string
}

func (e errMethodNotAllowed) Error() string {
	return fmt.Sprintf("Method %v not allowed", e.Method)
}

func (e errMethodNotAllowed) HTTPStatus() int {
	return http.StatusMethodNotAllowed
}

// responseCreated is returned as a value response from handler
// functions that want to indicate that a new resource was created.
type responseCreated struct {
	// Location holds the canonical URL to the newly created resource.
	Location string

	// Body contains the object sent in the body of the response.
	Body interface{}
}

type resourceHandler struct {
	// Context reads an HTTP request and produces a context object.
	Context func(req *http.Request) (*context, error)

	// Get, if non-nil, returns a representation of the object.
	Get func(*context) (interface{}, error)

	// Put, if non-nil, updates the object from the decoded body.
	Put func(*context, map[string]interface{}) (interface{}, error)

	// Post, if non-nil, takes some action with the decoded body.
	// The return can be any useful return value, including
	// responseCreated.
	Post func(*context, map[string]interface{}) (interface{}, error)

	// Delete, if non-nil, deletes the object.
	Delete func(*context) (interface{}, error)
}

func (h *resourceHandler) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	var (
		ctx          *context
		in           map[string]interface{}
		out          interface{}
		err          error
		status       int
		responseType string
	)

	// Recover from panics by sending an HTTP error.
	defer func() {
		if recovered := recover(); recovered != nil {
			response := restdata.ErrorResponse{}
			response.FromPanic(recovered)
			resp.Header().Set("Content-Type", restdata.V1JSONMediaType)
			resp.WriteHeader(http.StatusInternalServerError)
			_ = restdata.Encode(resp, response)
		}
	}()

	// Start by trying to come up with a response type, even before
	// trying to parse the input.  This determines what format an
	// error message could be sent back as.
	responseType, err = negotiateResponse(req)
	if err != nil {
		// Gotta pick something
		responseType = restdata.V1JSONMediaType
	}

	// Get bits from URL parameters
	if err == nil {
		ctx, err = h.Context(req)
	}

	// Read the (JSON?) body, if it's there
	if err == nil && (req.Method == "PUT" || req.Method == "POST") {
		contentType := req.Header.Get("Content-Type")
		err = restdata.Decode(contentType, req.Body, &in)
		if err != nil {
			if _, isMediaType := err.(restdata.ErrUnsupportedMediaType); !isMediaType {
				err = restdata.ErrBadRequest{Err: err}
			}
		}
		if err == nil && in == nil {
			in = make(map[string]interface{})
		}
	}

	// Actually call the handler method
	if err == nil {
		// We will return this if the method is unexpected or
		// we don't have a handler for it
		err = errMethodNotAllowed{Method: req.Method}
		switch req.Method {
		case "GET", "HEAD":
			if h.Get != nil {
				out, err = h.Get(ctx)
			}
		case "PUT":
			if h.Put != nil {
				out, err = h.Put(ctx, in)
			}
		case "POST":
			if h.Post != nil {
				out, err = h.Post(ctx, in)
			}
		case "DELETE":
			if h.Delete != nil {
				out, err = h.Delete(ctx)
			}
		}
	}

	// Fix up the final result based on what we know.
	if err != nil {
		status = restdata.StatusOf(err)
		if status == http.StatusInternalServerError && ctx == nil {
			// Failures before the handler ran are the
			// client's fault
			status = http.StatusBadRequest
		}
		response := restdata.ErrorResponse{Error: "error", Message: err.Error()}
		response.FromError(err)
		out = response
	} else if out == nil {
		status = http.StatusNoContent
	} else if created, isCreated := out.(responseCreated); isCreated {
		status = http.StatusCreated
		if created.Location != "" {
			resp.Header().Set("Location", created.Location)
		}
		out = created.Body
	} else {
		status = http.StatusOK
	}
	if req.Method == "HEAD" {
		out = nil
	}

	if _, understood := typeMap[responseType]; !understood {
		// Only a wildcard match leaves us here
		responseType = restdata.V1JSONMediaType
	}

	// Actually send the response.  By the point the encoder runs
	// we have already written an HTTP status line, so there is
	// nothing better to do with an encoding error than drop it.
	if out != nil {
		resp.Header().Set("Content-Type", responseType)
	}
	resp.WriteHeader(status)
	if out != nil {
		_ = restdata.Encode(resp, out)
	}
}

// negotiateResponse returns a supported MIME type for the response
// body, following the path laid out in RFC 7231 section 5.3.
func negotiateResponse(req *http.Request) (string, error) {
	accept := req.Header.Get("Accept")
	if accept == "" {
		accept = "*/*"
	}
	bestType := ""
	bestQ := 0.0
	for _, mediaRange := range strings.Split(accept, ",") {
		mediaRange = strings.TrimSpace(mediaRange)
		mediaType, params, err := mime.ParseMediaType(mediaRange)
		if err != nil {
			return "", err
		}

		// What is the "q" ("quality") parameter for this type?
		// If it is less than the best known so far, skip it
		q := 1.0
		if qStr, haveQ := params["q"]; haveQ {
			q, err = strconv.ParseFloat(qStr, 64)
			if err != nil {
				return "", err
			}
			if q < 0.0 || q > 1.0 {
				return "", errBadAccept
			}
		}
		if q < bestQ {
			continue
		}

		// Specific types override wildcards; among wildcards,
		// text/* and application/* override */*.
		switch {
		case mediaType == "*/*":
			if q > bestQ {
				bestType, bestQ = mediaType, q
			}
		case mediaType == "text/*" || mediaType == "application/*":
			if q > bestQ || bestType == "*/*" {
				bestType, bestQ = mediaType, q
			}
		default:
			if _, knownType := typeMap[mediaType]; !knownType {
				continue
			}
			if q > bestQ || isWildcard(bestType) {
				bestType, bestQ = mediaType, q
			}
		}
	}
	if bestQ == 0.0 {
		return "", errNotAcceptable{}
	}
	switch bestType {
	case "*/*", "application/*":
		return restdata.V1JSONMediaType, nil
	case "text/*":
		return "text/json", nil
	default:
		return bestType, nil
	}
}

func isWildcard(mediaType string) bool {
	return mediaType == "*/*" || mediaType == "text/*" || mediaType == "application/*"
}
