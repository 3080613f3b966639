package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// decodeJSONRequest fills out from the body. Keys are matched
// case-insensitively. An empty body leaves out untouched.
func decodeJSONRequest(r *http.Request, out interface{}) error {
	if r.Body == nil {
		return nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(body, &obj); err != nil {
		return err
	}
	normalized := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		normalized[k] = v
	}
	for k, v := range obj {
		lower := strings.ToLower(k)
		if lower != k {
			if _, exists := normalized[lower]; !exists {
				normalized[lower] = v
			}
		}
	}
	body, err = json.Marshal(normalized)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
