package http1

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Text returns a response with the given status code and a text/plain
// body.
func Text(code int, body string) *Response {
	res := NewResponse()
	res.SetStatus(code)
	res.SetContentType("text/plain; charset=utf-8")
	res.AppendString(body)
	return res
}

// JSON returns a response with the given status code and v encoded as a
// JSON body. If encoding fails, a 500 Internal Server Error response is
// returned instead.
func JSON(code int, v any) *Response {
	body, err := json.Marshal(v)
	if err != nil {
		return Error(http.StatusInternalServerError, "response encoding failed")
	}

	res := NewResponse()
	res.SetStatus(code)
	res.SetContentType("application/json")
	res.Append(body)
	return res
}

// Error returns a text/plain error response carrying the status code,
// the standard reason phrase and an optional detail line.
func Error(code int, detail string) *Response {
	body := fmt.Sprintf("%d %s", code, http.StatusText(code))
	if detail != "" {
		body += "\n" + detail
	}
	return Text(code, body+"\n")
}
