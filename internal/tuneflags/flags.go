// Package tuneflags holds the registry of runtime tuning flags. Each flag
// tracks whether it still holds its declared default, had a hardware-derived
// default applied, or was explicitly set by the user. The set is frozen once
// initialization completes; later mutation is a programming error.
package tuneflags

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Origin describes how a flag got its current value.
type Origin int

const (
	// OriginUnset means the flag still holds its declared default and no
	// stage of initialization has touched it.
	OriginUnset Origin = iota
	// OriginDefault means a hardware-derived or vendor-rule default was
	// applied, or a corrected user value was demoted back to default state.
	OriginDefault
	// OriginUser means the value was explicitly provided by configuration.
	OriginUser
)

func (o Origin) String() string {
	switch o {
	case OriginUnset:
		return "unset"
	case OriginDefault:
		return "default"
	case OriginUser:
		return "user"
	}
	return fmt.Sprintf("origin(%d)", int(o))
}

// Kind is the value type of a flag.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Flag is a single named tuning value.
type Flag struct {
	Name string
	Kind Kind
	Help string

	boolValue   bool
	intValue    int64
	stringValue string
	origin      Origin
}

// Origin returns how the flag got its current value.
func (f *Flag) Origin() Origin {
	return f.origin
}

// ValueString renders the current value for reports and logs.
func (f *Flag) ValueString() string {
	switch f.Kind {
	case KindBool:
		return strconv.FormatBool(f.boolValue)
	case KindInt:
		return strconv.FormatInt(f.intValue, 10)
	default:
		return f.stringValue
	}
}

// FlagSet is the registry of all tuning flags.
type FlagSet struct {
	flags  map[string]*Flag
	order  []string
	frozen bool
}

func (fs *FlagSet) lookup(name string) *Flag {
	f, ok := fs.flags[name]
	if !ok {
		panic(fmt.Sprintf("tuneflags: unknown flag %q", name))
	}
	return f
}

func (fs *FlagSet) mutable(name string) *Flag {
	if fs.frozen {
		panic(fmt.Sprintf("tuneflags: flag %q modified after freeze", name))
	}
	return fs.lookup(name)
}

// Bool returns the value of a boolean flag.
func (fs *FlagSet) Bool(name string) bool {
	f := fs.lookup(name)
	if f.Kind != KindBool {
		panic(fmt.Sprintf("tuneflags: flag %q is %s, not bool", name, f.Kind))
	}
	return f.boolValue
}

// Int returns the value of an integer flag.
func (fs *FlagSet) Int(name string) int64 {
	f := fs.lookup(name)
	if f.Kind != KindInt {
		panic(fmt.Sprintf("tuneflags: flag %q is %s, not int", name, f.Kind))
	}
	return f.intValue
}

// Str returns the value of a string flag.
func (fs *FlagSet) Str(name string) string {
	f := fs.lookup(name)
	if f.Kind != KindString {
		panic(fmt.Sprintf("tuneflags: flag %q is %s, not string", name, f.Kind))
	}
	return f.stringValue
}

// IsDefault reports whether the user has not explicitly set the flag.
func (fs *FlagSet) IsDefault(name string) bool {
	return fs.lookup(name).origin != OriginUser
}

// Origin returns the origin of the named flag.
func (fs *FlagSet) Origin(name string) Origin {
	return fs.lookup(name).origin
}

// SetDefaultBool writes a default value and marks the flag default-applied.
// Also used to demote a corrected user value so downstream stages see
// consistent state.
func (fs *FlagSet) SetDefaultBool(name string, value bool) {
	f := fs.mutable(name)
	if f.Kind != KindBool {
		panic(fmt.Sprintf("tuneflags: flag %q is %s, not bool", name, f.Kind))
	}
	f.boolValue = value
	f.origin = OriginDefault
}

// SetDefaultInt writes a default value and marks the flag default-applied.
func (fs *FlagSet) SetDefaultInt(name string, value int64) {
	f := fs.mutable(name)
	if f.Kind != KindInt {
		panic(fmt.Sprintf("tuneflags: flag %q is %s, not int", name, f.Kind))
	}
	f.intValue = value
	f.origin = OriginDefault
}

// SetDefaultStr writes a default value and marks the flag default-applied.
func (fs *FlagSet) SetDefaultStr(name string, value string) {
	f := fs.mutable(name)
	if f.Kind != KindString {
		panic(fmt.Sprintf("tuneflags: flag %q is %s, not string", name, f.Kind))
	}
	f.stringValue = value
	f.origin = OriginDefault
}

// SetUser parses and applies a user-provided value for the named flag. The
// flag name is validated here, at configuration-load time, so an
// unrecognized name is a hard error rather than a silent no-op.
func (fs *FlagSet) SetUser(name, value string) error {
	if fs.frozen {
		panic(fmt.Sprintf("tuneflags: flag %q modified after freeze", name))
	}
	f, ok := fs.flags[name]
	if !ok {
		return fmt.Errorf("unrecognized tuning flag %q", name)
	}
	switch f.Kind {
	case KindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("tuning flag %q requires a boolean value, got %q", name, value)
		}
		f.boolValue = b
	case KindInt:
		i, err := strconv.ParseInt(value, 0, 64)
		if err != nil {
			return fmt.Errorf("tuning flag %q requires an integer value, got %q", name, value)
		}
		f.intValue = i
	case KindString:
		f.stringValue = value
	}
	f.origin = OriginUser
	return nil
}

// ApplySetting applies a single "name=value" setting, as given on the
// command line.
func (fs *FlagSet) ApplySetting(setting string) error {
	name, value, found := strings.Cut(setting, "=")
	if !found {
		return fmt.Errorf("invalid tuning setting %q, expected name=value", setting)
	}
	return fs.SetUser(strings.TrimSpace(name), strings.TrimSpace(value))
}

// LoadConfig reads a YAML file of flag name to value mappings and applies
// each entry as a user-set value.
func (fs *FlagSet) LoadConfig(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read tuning config %s", path)
	}
	var settings map[string]interface{}
	if err := yaml.Unmarshal(content, &settings); err != nil {
		return errors.Wrapf(err, "failed to parse tuning config %s", path)
	}
	for name, value := range settings {
		if err := fs.SetUser(name, fmt.Sprintf("%v", value)); err != nil {
			return errors.Wrapf(err, "tuning config %s", path)
		}
	}
	return nil
}

// Freeze makes the flag set immutable. Called once after initialization;
// any later mutation panics.
func (fs *FlagSet) Freeze() {
	fs.frozen = true
}

// Frozen reports whether the set has been frozen.
func (fs *FlagSet) Frozen() bool {
	return fs.frozen
}

// Visit calls fn for every flag in registration order.
func (fs *FlagSet) Visit(fn func(*Flag)) {
	for _, name := range fs.order {
		fn(fs.flags[name])
	}
}
