package pagehook

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ParseFrontMatter returns the front-matter fields at the start of a
// Markdown document. YAML is delimited by "---" lines and TOML by "+++"
// lines. A document without front-matter yields nil and no error.
func ParseFrontMatter(doc []byte) (map[string]any, error) {
	doc = bytes.TrimPrefix(doc, []byte("\ufeff"))

	for _, delim := range []string{"---", "+++"} {
		body, ok := fencedBlock(doc, delim)
		if !ok {
			continue
		}

		fields := map[string]any{}
		var err error
		if delim == "---" {
			err = yaml.Unmarshal(body, &fields)
		} else {
			err = toml.Unmarshal(body, &fields)
		}
		if err != nil {
			return nil, fmt.Errorf("parsing front-matter: %w", err)
		}
		return fields, nil
	}

	return nil, nil
}

// fencedBlock returns the text between an opening delim line at the very
// start of doc and the next line consisting only of delim.
func fencedBlock(doc []byte, delim string) ([]byte, bool) {
	first, rest, found := bytes.Cut(doc, []byte("\n"))
	if !found || string(bytes.TrimRight(first, " \t\r")) != delim {
		return nil, false
	}

	var body []byte
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = bytes.Cut(rest, []byte("\n"))
		if string(bytes.TrimRight(line, " \t\r")) == delim {
			return body, true
		}
		body = append(body, line...)
		body = append(body, '\n')
	}

	return nil, false
}
