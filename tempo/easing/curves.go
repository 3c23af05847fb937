package easing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/valerio/go-tempo/tempo/errs"
)

// ErrUnknownCurve is returned when a curve name is not registered.
var ErrUnknownCurve = errors.New("unknown easing curve")

// ID identifies a curve. The zero value is Linear.
type ID int

const (
	Linear ID = iota
	InQuad
	OutQuad
	InOutQuad
	InCubic
	OutCubic
	InOutCubic
	InQuart
	OutQuart
	InOutQuart
	InQuint
	OutQuint
	InOutQuint
	InSine
	OutSine
	InOutSine
	InExpo
	OutExpo
	InOutExpo
	InCirc
	OutCirc
	InOutCirc
	InElastic
	OutElastic
	InOutElastic

	curveCount
)

type curve struct {
	name string
	fn   Func
}

var curves = [curveCount]curve{
	Linear:       {"linear", exact(linear)},
	InQuad:       {"easeInQuad", exact(inQuad)},
	OutQuad:      {"easeOutQuad", exact(outQuad)},
	InOutQuad:    {"easeInOutQuad", exact(inOutQuad)},
	InCubic:      {"easeInCubic", exact(inCubic)},
	OutCubic:     {"easeOutCubic", exact(outCubic)},
	InOutCubic:   {"easeInOutCubic", exact(inOutCubic)},
	InQuart:      {"easeInQuart", exact(inQuart)},
	OutQuart:     {"easeOutQuart", exact(outQuart)},
	InOutQuart:   {"easeInOutQuart", exact(inOutQuart)},
	InQuint:      {"easeInQuint", exact(inQuint)},
	OutQuint:     {"easeOutQuint", exact(outQuint)},
	InOutQuint:   {"easeInOutQuint", exact(inOutQuint)},
	InSine:       {"easeInSine", exact(inSine)},
	OutSine:      {"easeOutSine", exact(outSine)},
	InOutSine:    {"easeInOutSine", exact(inOutSine)},
	InExpo:       {"easeInExpo", exact(inExpo)},
	OutExpo:      {"easeOutExpo", exact(outExpo)},
	InOutExpo:    {"easeInOutExpo", exact(inOutExpo)},
	InCirc:       {"easeInCirc", exact(inCirc)},
	OutCirc:      {"easeOutCirc", exact(outCirc)},
	InOutCirc:    {"easeInOutCirc", exact(inOutCirc)},
	InElastic:    {"easeInElastic", exact(inElastic)},
	OutElastic:   {"easeOutElastic", exact(outElastic)},
	InOutElastic: {"easeInOutElastic", exact(inOutElastic)},
}

var byName = func() map[string]ID {
	m := make(map[string]ID, len(curves))
	for id, c := range curves {
		m[c.name] = ID(id)
	}
	return m
}()

// Valid reports whether id names a registered curve.
func (id ID) Valid() bool {
	return id >= 0 && id < curveCount
}

// String returns the stable name of the curve.
func (id ID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("easing.ID(%d)", int(id))
	}
	return curves[id].name
}

// Func returns the curve for id. Unknown ids resolve to nil; use Parse or
// Lookup to validate configuration input.
func (id ID) Func() Func {
	if !id.Valid() {
		return nil
	}
	return curves[id].fn
}

// Parse resolves a curve name such as "easeInOutQuad".
func Parse(name string) (ID, error) {
	id, ok := byName[name]
	if !ok {
		return 0, errs.Config("easing", "curve", name, ErrUnknownCurve)
	}
	return id, nil
}

// Lookup resolves a curve name directly to its function.
func Lookup(name string) (Func, error) {
	id, err := Parse(name)
	if err != nil {
		return nil, err
	}
	return id.Func(), nil
}

// Names returns every registered curve name, sorted.
func Names() []string {
	names := make([]string, 0, len(curves))
	for _, c := range curves {
		names = append(names, c.name)
	}
	sort.Strings(names)
	return names
}

// IDs returns every registered curve id in declaration order.
func IDs() []ID {
	ids := make([]ID, curveCount)
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}
