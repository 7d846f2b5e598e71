package server

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vitalvas/tiffin/http1"
	"github.com/vitalvas/tiffin/router"
)

// handleConn drives one connection through repeated request-response
// cycles until the client, the protocol or a timeout closes it.
func (s *Server) handleConn(conn net.Conn) {
	defer s.conns.Done()
	defer conn.Close()

	log := s.logger().With("remote", conn.RemoteAddr().String())
	br := bufio.NewReader(conn)

	for first := true; ; first = false {
		timeout := s.cfg.ReadTimeout
		if !first {
			timeout = s.cfg.IdleTimeout
		}
		conn.SetReadDeadline(time.Now().Add(timeout))

		req, err := http1.ReadRequest(br, s.cfg.limits())
		if err != nil {
			s.finishRead(conn, log, err, first)
			return
		}

		start := time.Now()
		id := uuid.NewString()

		res, matched := s.resolve(req, log.With("request_id", id))
		keepAlive := req.KeepAlive() && !forcesClose(res) && !s.inShutdown.Load()
		s.finalize(res, id, keepAlive)

		conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		serialize := res.Bytes
		if req.Method == http1.MethodHead {
			serialize = res.HeadBytes
		}
		payload := serialize()
		if _, err := conn.Write(payload); err != nil {
			log.Debug("write failed", "error", err)
			return
		}

		log.Info("request",
			"request_id", id,
			"method", req.Method.String(),
			"path", req.Path,
			"status", res.Status(),
			"matched", matched,
			"duration", time.Since(start),
		)

		if !keepAlive {
			return
		}
	}
}

// finishRead handles the outcome of a failed request read: parse errors
// get a 4xx response before the connection closes, transport errors and
// clean disconnects close it silently.
func (s *Server) finishRead(conn net.Conn, log *slog.Logger, err error, first bool) {
	switch {
	case errors.Is(err, io.EOF):
		// Client went away between requests; nothing to answer.
		return
	case http1.IsParseError(err):
		res := http1.Error(parseErrorStatus(err), "")
		res.SetHeader("Connection", "close")
		s.finalize(res, uuid.NewString(), false)

		conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		conn.Write(res.Bytes())
		log.Warn("bad request", "error", err, "status", res.Status())
	default:
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			if first {
				log.Debug("read timed out", "error", err)
			}
			return
		}
		log.Debug("read failed", "error", err)
	}
}

// parseErrorStatus maps the parse error taxonomy to response codes:
// oversized headers to 431 (RFC 6585 Section 5), oversized bodies to
// 413 (RFC 7231 Section 6.5.11), everything else to 400.
func parseErrorStatus(err error) int {
	switch {
	case errors.Is(err, http1.ErrHeaderTooLarge):
		return http.StatusRequestHeaderFieldsTooLarge
	case errors.Is(err, http1.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadRequest
	}
}

// resolve queries the route table and produces the response: the
// matched handler's on success, 404 (or the fallback handler's) when no
// pattern matches, 405 with an Allow header when patterns match the
// path but not the method.
func (s *Server) resolve(req *http1.Request, log *slog.Logger) (*http1.Response, bool) {
	match, err := s.table.Resolve(req.Method, req.Path)
	if err == nil {
		req.Params = match.Params
		return s.invoke(match.Handler, req, log), true
	}

	var mna *router.MethodNotAllowedError
	if errors.As(err, &mna) {
		res := http1.Error(http.StatusMethodNotAllowed, "")
		res.SetHeader("Allow", mna.AllowHeader())
		return res, false
	}

	if s.Fallback != nil {
		return s.invoke(s.Fallback, req, log), false
	}
	return http1.Error(http.StatusNotFound, req.Path), false
}

// invoke calls a handler, substituting a 500 response when it panics or
// returns nil. Handler failures never propagate past this connection.
func (s *Server) invoke(h router.Handler, req *http1.Request, log *slog.Logger) (res *http1.Response) {
	defer func() {
		if v := recover(); v != nil {
			log.Error("handler panic", "panic", v, "method", req.Method.String(), "path", req.Path)
			res = http1.Error(http.StatusInternalServerError, "")
		}
	}()

	res = h(req)
	if res == nil {
		log.Error("handler returned nil response", "method", req.Method.String(), "path", req.Path)
		res = http1.Error(http.StatusInternalServerError, "")
	}
	return res
}

// finalize stamps the framework-owned response headers before the
// response is serialized.
func (s *Server) finalize(res *http1.Response, id string, keepAlive bool) {
	header := res.Header()

	header.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	if !header.Has("X-Request-Id") {
		header.Set("X-Request-Id", id)
	}
	if !header.Has("Content-Type") && res.BodyLen() > 0 {
		header.Set("Content-Type", s.cfg.DefaultContentType)
	}
	if !keepAlive {
		header.Set("Connection", "close")
	} else if !header.Has("Connection") {
		header.Set("Connection", "keep-alive")
	}
}

// forcesClose reports whether the handler marked the response with
// "Connection: close", overriding keep-alive.
func forcesClose(res *http1.Response) bool {
	for _, part := range strings.Split(res.Header().Get("Connection"), ",") {
		if strings.EqualFold(strings.TrimSpace(part), "close") {
			return true
		}
	}
	return false
}
