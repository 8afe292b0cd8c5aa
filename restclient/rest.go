// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restclient provides the network transport used by the
// operation handlers in the actions package.
//
// The Transport interface is the whole contract: perform an HTTP verb
// against a URL, optionally with a body, and return the decoded
// result or fail with an error.  There is no retry, timeout or
// authentication here; configure those on the *http.Client passed to
// New.  A typical setup is
//
//     transport, err := restclient.New("http://localhost:5980/", http.DefaultClient)
package restclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"

	"github.com/diffeo/go-restflux/restdata"
	"github.com/sirupsen/logrus"
)

// Transport performs a single network call.  body, if non-nil, is
// serialized as the request body.  The result is the decoded response
// body, or nil if the response had none.
type Transport interface {
	Call(ctx context.Context, method, url string, body interface{}) (interface{}, error)
}

// TransportFunc adapts an ordinary function to the Transport
// interface.
type TransportFunc func(ctx context.Context, method, url string, body interface{}) (interface{}, error)

// Call calls f.
func (f TransportFunc) Call(ctx context.Context, method, url string, body interface{}) (interface{}, error) {
	return f(ctx, method, url, body)
}

// ErrNoBaseURL is returned from New if the base URL is not absolute.
var ErrNoBaseURL = errors.New("Base URL must be absolute")

// Client is an HTTP Transport.  Relative URLs passed to Call are
// resolved against the base URL.
type Client struct {
	// BaseURL is the URL relative locations are resolved against.
	BaseURL *url.URL

	// HTTP is the underlying client.
	HTTP *http.Client

	// Logger receives a debug line per call.
	Logger logrus.FieldLogger
}

// New creates a new HTTP transport.  If client is nil, uses
// http.DefaultClient.
func New(baseURL string, client *http.Client) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, ErrNoBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		BaseURL: base,
		HTTP:    client,
		Logger:  logrus.StandardLogger(),
	}, nil
}

// Call performs some HTTP action.  If in is non-nil, the request data
// is serialized and sent as the body of, for instance, a POST
// request.
func (c *Client) Call(ctx context.Context, method, target string, in interface{}) (out interface{}, err error) {
	u, err := c.BaseURL.Parse(target)
	if err != nil {
		return nil, err
	}

	// Set up the body as serialized JSON, if there is one
	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err = restdata.Encode(buf, in); err != nil {
			return nil, err
		}
		body = buf
	}

	// Create the request and set headers
	req, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	if in != nil {
		req.Header.Set("Content-Type", restdata.V1JSONMediaType)
	}
	req.Header.Set("Accept", restdata.V1JSONMediaType)

	// Actually do the request
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}

	// If the response included a body, clean up afterwards
	if resp.Body != nil {
		defer func() {
			err = firstError(err, resp.Body.Close())
		}()
	}

	c.Logger.WithFields(logrus.Fields{
		"method": method,
		"url":    u.String(),
		"status": resp.StatusCode,
	}).Debug("transport call")

	// Check the response code
	if err = checkHTTPStatus(resp); err != nil {
		return nil, err
	}

	// Decode the body, if there is one
	if resp.Body == nil || resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	data, err := ioutil.ReadAll(resp.Body)
	if err != nil || len(data) == 0 {
		return nil, err
	}
	contentType := resp.Header.Get("Content-Type")
	err = restdata.Decode(contentType, bytes.NewReader(data), &out)
	return out, err
}

// ErrorHTTP is a catch-all error for non-successes returned from the
// REST endpoint.
type ErrorHTTP struct {
	// Response holds a pointer to the failing HTTP response.
	Response *http.Response

	// Body holds the contents of the message body, presumed to
	// be text.
	Body string
}

func (e ErrorHTTP) Error() string {
	return e.Response.Status
}

// HTTPStatus returns the status code of the failing response.
func (e ErrorHTTP) HTTPStatus() int {
	return e.Response.StatusCode
}

// checkHTTPStatus examines an HTTP response and returns an error if
// it is not successful.
func checkHTTPStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// Always collect the entire body; we will need it as a fallback
	// and can only parse it once.
	var body []byte
	var err error
	if resp.Body != nil {
		body, err = ioutil.ReadAll(resp.Body)
		if err != nil {
			return err
		}
	}

	// Take a shot at decoding it as a better error
	var errResp restdata.ErrorResponse
	contentType := resp.Header.Get("Content-Type")
	err2 := restdata.Decode(contentType, bytes.NewReader(body), &errResp)
	if err2 == nil && errResp.Error != "" {
		// Given that we decoded that successfully, return the
		// server-provided error
		return errResp.ToError()
	}

	return ErrorHTTP{Response: resp, Body: string(body)}
}

func firstError(e1, e2 error) error {
	if e1 != nil {
		return e1
	}
	return e2
}
