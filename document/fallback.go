// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"sync"
)

// runFallbacks tries every fallback registered for target in order.
func (c *Codec) runFallbacks(raw any, target reflect.Type) (any, bool) {
	for _, fb := range c.fallbacks[target] {
		v, ok := fb.Func(c, raw)
		if !ok {
			continue
		}
		c.log.Debug(
			"fallback strategy converted value",
			slog.String("strategy", fb.Name),
			slog.String("type", target.String()),
		)
		return v, true
	}
	return nil, false
}

// fallbackParser parses document text found inside string values. Its
// buffer is reused across calls so every use goes through mu.
type fallbackParser struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (p *fallbackParser) parse(c *Codec, text string) (*Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buf.Reset()
	p.buf.WriteString(text)
	b := p.buf.Bytes()

	if d, err := decodeJSON(c, b); err == nil {
		return d, nil
	}
	return decodeYAML(c, b)
}

// legacyTextFallback reads documents which were persisted as serialized
// text inside a string value.
func legacyTextFallback(c *Codec, raw any) (any, bool) {
	s, ok := raw.(string)
	if !ok {
		return nil, false
	}
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	d, err := c.parser.parse(c, s)
	if err != nil {
		return nil, false
	}
	return d, true
}

func yesNoFallback(_ *Codec, raw any) (any, bool) {
	s, ok := raw.(string)
	if !ok {
		return nil, false
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "on":
		return true, true
	case "no", "n", "off":
		return false, true
	}
	return nil, false
}
