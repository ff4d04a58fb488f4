package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// headersFile represents the structure of the default headers file.
type headersFile struct {
	Headers map[string]string `json:"headers" yaml:"headers"`
}

// LoadHeaders reads default request headers from a YAML/JSON file.
// An empty path yields no headers.
func LoadHeaders(path string) (map[string]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read headers file: %w", err)
	}

	file, err := parseHeadersFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return sanitizeHeaders(file.Headers), nil
}

// parseHeadersFile decodes by extension, or tries every decoder when the
// extension is unknown.
func parseHeadersFile(data []byte, ext string) (headersFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	known := false
	for _, d := range decoders {
		if ext == d.ext {
			known = true
			break
		}
	}

	for _, d := range decoders {
		if known && ext != d.ext {
			continue
		}
		var file headersFile
		if err := d.fn(data, &file); err == nil {
			return file, nil
		}
	}

	return headersFile{}, errors.New("headers file format not recognized (expected YAML or JSON)")
}

// sanitizeHeaders trims and removes empty headers.
func sanitizeHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
