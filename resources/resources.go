//go:build !js
// +build !js

package resources

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const userAgent = "rgrams-resources"

// corpusRequest issues method against the rsrc file under uri, and returns
// the response once it has a 200 status.
func corpusRequest(method string, uri string, rsrc string,
	auth string) (*http.Response, error) {
	target := strings.TrimSuffix(uri, "/") + "/" + rsrc
	req, reqErr := http.NewRequest(method, target, nil)
	if reqErr != nil {
		return nil, reqErr
	}
	req.Header.Set("User-Agent", userAgent)
	if auth != "" {
		req.Header.Set("Authorization", "Bearer "+auth)
	}
	resp, remoteErr := http.DefaultClient.Do(req)
	if remoteErr != nil {
		return nil, remoteErr
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.New(fmt.Sprintf("%s %s: HTTP status code %d",
			method, target, resp.StatusCode))
	}
	return resp, nil
}

// FetchHTTP
// Opens a corpus resource on a remote HTTP server, sending auth as a
// bearer token when set. The caller closes the returned body.
func FetchHTTP(uri string, rsrc string, auth string) (io.ReadCloser, error) {
	resp, err := corpusRequest(http.MethodGet, uri, rsrc, auth)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// SizeHTTP
// Returns the advertised byte size of a corpus resource, or 0 when the
// server does not send a Content-Length.
func SizeHTTP(uri string, rsrc string, auth string) (uint, error) {
	resp, err := corpusRequest(http.MethodHead, uri, rsrc, auth)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	if resp.ContentLength < 0 {
		return 0, nil
	}
	return uint(resp.ContentLength), nil
}
