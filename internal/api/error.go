package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrorはAPIの4xx/5xxを表す。
// Fieldsはバリデーションエラーをサーバーの形のまま保持する（整形しない）。
type Error struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
	}
	if len(e.Fields) > 0 {
		var parts []string
		for k, vs := range e.Fields {
			parts = append(parts, k+": "+strings.Join(vs, "; "))
		}
		return fmt.Sprintf("api: %d: %s", e.StatusCode, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("api: %d", e.StatusCode)
}

func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == http.StatusNotFound
}

func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == http.StatusBadRequest
}

// エラーボディを読む。DRFは {"error": ...} / {"detail": ...} /
// {"field": ["msg", ...]} のどれかで返してくる。
func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(b) == 0 {
		return apiErr
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		//JSONでなければ本文をそのままメッセージにする
		apiErr.Message = strings.TrimSpace(string(b))
		return apiErr
	}

	for key, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			switch key {
			case "error", "detail", "message":
				apiErr.Message = s
			default:
				addField(apiErr, key, s)
			}
			continue
		}

		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			for _, s := range list {
				addField(apiErr, key, s)
			}
		}
	}
	return apiErr
}

func addField(e *Error, key string, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[key] = append(e.Fields[key], msg)
}
