package build

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// pageMeta is the recognized YAML front matter of a page.
type pageMeta struct {
	Title string `yaml:"title"`
}

var frontMatterFence = []byte("---")

// splitFrontMatter strips a leading YAML front matter block, returning
// the parsed metadata and the remaining page body. Pages without front
// matter are returned unchanged with empty metadata.
func splitFrontMatter(src []byte) (pageMeta, []byte, error) {
	var meta pageMeta

	if !bytes.HasPrefix(src, frontMatterFence) {
		return meta, src, nil
	}
	rest, ok := bytes.CutPrefix(src, frontMatterFence)
	if !ok {
		return meta, src, nil
	}
	if len(rest) > 0 && rest[0] != '\n' && rest[0] != '\r' {
		// Not a fence, e.g. a thematic break with trailing text.
		return meta, src, nil
	}

	end := bytes.Index(rest, append([]byte("\n"), frontMatterFence...))
	if end < 0 {
		return meta, src, nil
	}

	block := rest[:end]
	body := rest[end+1+len(frontMatterFence):]
	if len(body) > 0 && body[0] == '\n' {
		body = body[1:]
	}

	if err := yaml.Unmarshal(block, &meta); err != nil {
		return pageMeta{}, nil, fmt.Errorf("parsing front matter: %w", err)
	}
	return meta, body, nil
}
