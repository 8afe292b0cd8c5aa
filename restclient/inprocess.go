// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"net/http"
	"net/http/httptest"
)

// handlerTransport is an http.RoundTripper that serves every request
// from an http.Handler in the same process.
type handlerTransport struct {
	handler http.Handler
}

func (t handlerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	rec := httptest.NewRecorder()
	t.handler.ServeHTTP(rec, req)
	resp := rec.Result()
	resp.Request = req
	return resp, nil
}

// InProcess returns an *http.Client that never touches the network:
// every request is handled by handler directly.  Pair it with New
// and any base URL, for instance to talk to a restserver router over
// a memory backend.
func InProcess(handler http.Handler) *http.Client {
	return &http.Client{Transport: handlerTransport{handler: handler}}
}
