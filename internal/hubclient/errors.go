package hubclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cozy-creator/hubuser/internal/common"
)

// statusError turns a non-success Hub reply into a *common.ProvisionError.
func statusError(status int, raw []byte) error {
	msg := errorMessage(status, raw)
	body := string(raw)

	switch status {
	case http.StatusConflict:
		pe := common.NewDuplicateError(conflictField(msg), msg, nil)
		pe.StatusCode, pe.Body = status, body
		return pe
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		pe := common.NewValidationError("", msg)
		pe.StatusCode, pe.Body = status, body
		return pe
	default:
		return common.NewTransportError(msg, status, body, nil)
	}
}

// errorMessage picks the detail of a failed reply: the "error" field, then
// "message", then the raw text folded onto one line when it is not JSON, then
// "HTTP <status>".
func errorMessage(status int, raw []byte) string {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, key := range []string{"error", "message"} {
			if s := stringField(body, key); s != "" {
				return s
			}
		}
	} else if text := strings.Join(strings.Fields(string(raw)), " "); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

// conflictField guesses which input collided from the Hub's message.
func conflictField(msg string) string {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "username"):
		return common.FieldUsername
	case strings.Contains(m, "email"), strings.Contains(m, "phone"), strings.Contains(m, "identifier"):
		return common.FieldIdentifier
	}
	return ""
}
