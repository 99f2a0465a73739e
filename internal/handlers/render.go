package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/a-h/templ"

	"darevote/internal/dare"
	"darevote/internal/viewmodel"
	"darevote/pkg/realtime"
)

// codeBadRequest marks malformed or incomplete client input.
const codeBadRequest dare.Code = "BAD_REQUEST"

const (
	maxNameLength = 20
	maxBodyBytes  = 64 << 10
)

func badRequest(msg string) error {
	return dare.NewError(codeBadRequest, msg)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", badRequest("nickname required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		name = string([]rune(name)[:maxNameLength])
	}
	return name, nil
}

func statusFor(code dare.Code) int {
	switch code {
	case dare.CodeRoomNotFound, dare.CodePlayerNotFound:
		return http.StatusNotFound
	case dare.CodeInvalidState, dare.CodeInsufficientPlayers, dare.CodeRoundNotActive:
		return http.StatusConflict
	case dare.CodeInvalidVote, codeBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorPayload(err error) viewmodel.Error {
	code := dare.CodeOf(err)
	if code == "" {
		return viewmodel.Error{Error: "internal error"}
	}
	return viewmodel.Error{Error: err.Error(), Code: string(code)}
}

func render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(dare.CodeOf(err))
	if status == http.StatusInternalServerError {
		log.Printf("request failed method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorPayload(err))
}

// decodeJSON reads an optional JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return badRequest("invalid JSON body")
	}
	return nil
}

func newEvent(name string, payload any) realtime.Event {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("encode event name=%s err=%v", name, err)
		data = []byte("null")
	}
	return realtime.Event{Name: name, Data: data}
}

func renderToString(r *http.Request, component templ.Component) string {
	var buf bytes.Buffer
	_ = component.Render(r.Context(), &buf)
	return buf.String()
}

func writeSSE(w http.ResponseWriter, event string, data string) {
	_, _ = w.Write([]byte("event: " + event + "\n"))
	for _, line := range strings.Split(data, "\n") {
		_, _ = w.Write([]byte("data: " + line + "\n"))
	}
	_, _ = w.Write([]byte("\n"))
}
