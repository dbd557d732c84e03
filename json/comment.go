package json

import (
	"encoding/json"

	"github.com/Laisky/errors/v2"
	"github.com/tailscale/hujson"
)

// Unmarshal unmarshal json, support comment
func Unmarshal(data []byte, v any) (err error) {
	if len(data) == 0 {
		return errors.New("empty json")
	}

	data, err = standardizeJSON(data)
	if err != nil {
		return errors.Wrap(err, "standardize json")
	}

	return json.Unmarshal(data, v)
}

// standardizeJSON strip comments and trailing commas.
// hujson rewrites its input in place, so parse a copy.
func standardizeJSON(b []byte) ([]byte, error) {
	ast, err := hujson.Parse(append([]byte(nil), b...))
	if err != nil {
		return nil, err
	}

	ast.Standardize()
	return ast.Pack(), nil
}
