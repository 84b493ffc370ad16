// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type color struct {
	R, G, B uint8
}

var red = color{R: 0xFF}

var colorSerializer = TypedSerializer(
	func(c color) (any, error) {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B), nil
	},
	func(raw any) (color, bool, error) {
		s, ok := raw.(string)
		if !ok || !strings.HasPrefix(s, "#") {
			return color{}, false, nil
		}
		n, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return color{}, false, err
		}
		return color{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, true, nil
	},
)

type point struct {
	X int `config:"x"`
	Y int `config:"y"`
}

func newPoint(d *Document) (point, error) {
	x, err := Require[int](d, "x")
	if err != nil {
		return point{}, err
	}
	y, err := Require[int](d, "y")
	if err != nil {
		return point{}, err
	}
	return point{X: x, Y: y}, nil
}

type circle struct {
	Radius int
}

func (c circle) SerializeTo(d *Document) error {
	return d.Put("radius", c.Radius)
}

func newCircle(d *Document) (circle, error) {
	r, err := Require[int](d, "radius")
	return circle{Radius: r}, err
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
)

func (l level) String() string {
	switch l {
	case levelDebug:
		return "DEBUG"
	case levelInfo:
		return "INFO"
	case levelWarn:
		return "WARN"
	}
	return "level(" + strconv.Itoa(int(l)) + ")"
}

type server struct {
	Host    string        `config:"host"`
	Port    int           `config:"port"`
	Timeout time.Duration `config:"timeout"`
	Level   level         `config:"level"`
	Tags    []string      `config:"tags,omitempty"`
	Secret  string        `config:"-"`
}

func testCodec(opts ...Option) *Codec {
	base := []Option{
		WithSerializer(colorSerializer),
		WithFactory(newPoint),
		WithAlias[point]("Point"),
		WithFactory(newCircle),
		WithAlias[circle]("Circle"),
		WithEnum(levelDebug, levelInfo, levelWarn),
	}
	return MustCodec(append(base, opts...)...)
}
