package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/agentstation/taxonomy-import/pkg/errors"
	"github.com/agentstation/taxonomy-import/pkg/logging"
)

const serviceName = "taxonomy"

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 4 << 10

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close response body")
	}
}

func endpoint(resp *http.Response) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return ""
	}
	return resp.Request.Method + " " + resp.Request.URL.Path
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &errors.APIError{
		Service:    serviceName,
		StatusCode: resp.StatusCode,
		Message:    msg,
		Endpoint:   endpoint(resp),
	}
}

// DecodeResponse decodes a JSON response into the target structure. Any
// non-2xx status is returned as an APIError.
func DecodeResponse(resp *http.Response, target any) error {
	defer closeBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", endpoint(resp), err)
	}
	return nil
}

// ExpectStatus closes the response and returns an APIError unless its status
// is one of want.
func ExpectStatus(resp *http.Response, want ...int) error {
	defer closeBody(resp)
	if slices.Contains(want, resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return apiError(resp)
}

// LocationID returns the last path segment of the Location header, which the
// service uses to report the id of a created node.
func LocationID(resp *http.Response) (string, error) {
	loc := strings.TrimRight(resp.Header.Get("Location"), "/")
	if loc == "" {
		return "", &errors.APIError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Message:    "response has no Location header",
			Endpoint:   endpoint(resp),
		}
	}
	return path.Base(loc), nil
}
