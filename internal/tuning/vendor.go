package tuning

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	_ "embed"
	"fmt"
	"strconv"

	"github.com/casbin/govaluate"
	yaml "gopkg.in/yaml.v2"

	"cputune/internal/hwcaps"
)

//go:embed vendor_rules.yaml
var vendorRulesYAML []byte

// vendorRule is one declarative silicon-specific tuning record. Match and
// guard are expressions over the probed identity; defaults hold literal flag
// assignments, computed holds expression-valued ones. Both honor the
// only-if-default discipline. Features lists feature bits derived purely
// from the model match.
type vendorRule struct {
	Name         string                 `yaml:"name"`
	Match        string                 `yaml:"match"`
	Guard        string                 `yaml:"guard"`
	GuardMessage string                 `yaml:"guard_message"`
	Defaults     map[string]interface{} `yaml:"defaults"`
	Computed     map[string]string      `yaml:"computed"`
	Features     []string               `yaml:"features"`
}

type vendorRuleFile struct {
	Rules []vendorRule `yaml:"rules"`
}

func loadVendorRules() ([]vendorRule, error) {
	var file vendorRuleFile
	if err := yaml.Unmarshal(vendorRulesYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse vendor rules: %v", err)
	}
	return file.Rules, nil
}

// identityEvaluator evaluates rule expressions against one processor
// identity.
type identityEvaluator struct {
	params    map[string]interface{}
	functions map[string]govaluate.ExpressionFunction
}

// hexArg parses the single string argument of a model-matching function.
// Expressions quote hex model numbers because the expression grammar has no
// hex literals.
func hexArg(fn string, args []interface{}) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s requires exactly one argument", fn)
	}
	s, ok := args[0].(string)
	if !ok {
		return 0, fmt.Errorf("%s requires a quoted model number, e.g. %s(\"0xd03\")", fn, fn)
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid model number %q", fn, s)
	}
	return int(v), nil
}

func newIdentityEvaluator(id hwcaps.ProcessorIdentity) *identityEvaluator {
	return &identityEvaluator{
		params: map[string]interface{}{
			"vendor":   float64(id.Vendor),
			"variant":  float64(id.Variant),
			"revision": float64(id.Revision),
			"stepping": float64(id.Stepping),

			"ARM":       float64(hwcaps.VendorARM),
			"BROADCOM":  float64(hwcaps.VendorBroadcom),
			"CAVIUM":    float64(hwcaps.VendorCavium),
			"HISILICON": float64(hwcaps.VendorHiSilicon),
			"AMCC":      float64(hwcaps.VendorAMCC),
			"AMPERE":    float64(hwcaps.VendorAmpere),
		},
		functions: map[string]govaluate.ExpressionFunction{
			"model_is": func(args ...interface{}) (interface{}, error) {
				m, err := hexArg("model_is", args)
				if err != nil {
					return nil, err
				}
				return id.ModelIs(m), nil
			},
			"model_primary_is": func(args ...interface{}) (interface{}, error) {
				m, err := hexArg("model_primary_is", args)
				if err != nil {
					return nil, err
				}
				return id.Model == m, nil
			},
		},
	}
}

func (ev *identityEvaluator) eval(expression string) (interface{}, error) {
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(expression, ev.functions)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %v", expression, err)
	}
	return expr.Evaluate(ev.params)
}

func (ev *identityEvaluator) evalBool(expression string) (bool, error) {
	result, err := ev.eval(expression)
	if err != nil {
		return false, err
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("expression %q is not boolean", expression)
	}
	return b, nil
}

// applyVendorRules runs the ordered vendor tuning table against the probed
// identity. Matching rules write flag defaults (never clobbering an
// explicit user choice), may derive feature bits from the model match, and
// may fail initialization through a guard.
func (e *engine) applyVendorRules() error {
	rules, err := loadVendorRules()
	if err != nil {
		return err
	}
	ev := newIdentityEvaluator(e.probe.Identity)
	for _, rule := range rules {
		matched, err := ev.evalBool(rule.Match)
		if err != nil {
			return fmt.Errorf("vendor rule %q: %v", rule.Name, err)
		}
		if !matched {
			continue
		}
		if rule.Guard != "" {
			ok, err := ev.evalBool(rule.Guard)
			if err != nil {
				return fmt.Errorf("vendor rule %q: %v", rule.Name, err)
			}
			if !ok {
				return fmt.Errorf("%s: %s", rule.Name, rule.GuardMessage)
			}
		}
		for _, name := range rule.Features {
			feature, ok := hwcaps.FeatureByName(name)
			if !ok {
				return fmt.Errorf("vendor rule %q: unknown feature %q", rule.Name, name)
			}
			e.features = e.features.Add(feature)
		}
		for flag, value := range rule.Defaults {
			if err := e.applyRuleDefault(rule.Name, flag, value); err != nil {
				return err
			}
		}
		for flag, expression := range rule.Computed {
			value, err := ev.eval(expression)
			if err != nil {
				return fmt.Errorf("vendor rule %q: %v", rule.Name, err)
			}
			if err := e.applyRuleDefault(rule.Name, flag, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyRuleDefault writes one rule assignment, skipping flags the user has
// explicitly set.
func (e *engine) applyRuleDefault(ruleName, flag string, value interface{}) error {
	if !e.flags.IsDefault(flag) {
		return nil
	}
	switch v := value.(type) {
	case bool:
		e.flags.SetDefaultBool(flag, v)
	case int:
		e.flags.SetDefaultInt(flag, int64(v))
	case int64:
		e.flags.SetDefaultInt(flag, v)
	case float64:
		e.flags.SetDefaultInt(flag, int64(v))
	case string:
		e.flags.SetDefaultStr(flag, v)
	default:
		return fmt.Errorf("vendor rule %q: unsupported value %v for flag %s", ruleName, value, flag)
	}
	return nil
}
