package repo

import "github.com/goccy/go-json"

// jsonColumn encodes v for a jsonb column. lib/pq sends []byte as bytea,
// so the payload goes out as text.
func jsonColumn(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJSON(b []byte, v any) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, v)
}
