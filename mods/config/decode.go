package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/machbase/neo-calc/mods/logging"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

var calcSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "posture"},
		{Name: "grouping"},
	},
}

var logSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "console"},
		{Name: "filename"},
		{Name: "append"},
		{Name: "rotate_schedule"},
		{Name: "max_size"},
		{Name: "max_backups"},
		{Name: "max_age"},
		{Name: "compress"},
		{Name: "utc"},
		{Name: "prefix_width"},
		{Name: "enable_source_location"},
		{Name: "default_level"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "level", LabelNames: []string{"pattern"}},
	},
}

var levelSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "level", Required: true},
	},
}

var httpSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "listen"},
		{Name: "debug"},
		{Name: "shutdown_timeout"},
	},
}

var cacheSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "enabled"},
		{Name: "capacity"},
		{Name: "ttl"},
	},
}

type attrSetter func(value cty.Value) error

func decodeAttributes(body hcl.Body, schema *hcl.BodySchema, evalCtx *hcl.EvalContext, setters map[string]attrSetter) (*hcl.BodyContent, error) {
	content, diag := body.Content(schema)
	if diag.HasErrors() {
		return nil, errors.New(diag.Error())
	}
	for name, attr := range content.Attributes {
		value, diag := attr.Expr.Value(evalCtx)
		if diag.HasErrors() {
			return nil, errors.New(diag.Error())
		}
		set, ok := setters[name]
		if !ok {
			continue
		}
		if err := set(value); err != nil {
			return nil, fmt.Errorf("%s, %w", name, err)
		}
	}
	return content, nil
}

func decodeCalc(conf *CalcConfig, body hcl.Body, evalCtx *hcl.EvalContext) error {
	_, err := decodeAttributes(body, calcSchema, evalCtx, map[string]attrSetter{
		"posture":  stringSetter(&conf.Posture),
		"grouping": stringSetter(&conf.Grouping),
	})
	return err
}

func decodeLog(conf *logging.Config, body hcl.Body, evalCtx *hcl.EvalContext) error {
	content, err := decodeAttributes(body, logSchema, evalCtx, map[string]attrSetter{
		"console":                boolSetter(&conf.Console),
		"filename":               stringSetter(&conf.Filename),
		"append":                 boolSetter(&conf.Append),
		"rotate_schedule":        stringSetter(&conf.RotateSchedule),
		"max_size":               intSetter(&conf.MaxSize),
		"max_backups":            intSetter(&conf.MaxBackups),
		"max_age":                intSetter(&conf.MaxAge),
		"compress":               boolSetter(&conf.Compress),
		"utc":                    boolSetter(&conf.UTC),
		"prefix_width":           intSetter(&conf.DefaultPrefixWidth),
		"enable_source_location": boolSetter(&conf.DefaultEnableSourceLocation),
		"default_level":          stringSetter(&conf.DefaultLevel),
	})
	if err != nil {
		return err
	}
	if len(content.Blocks) == 0 {
		return nil
	}
	// level blocks of a file replace the inherited ones
	conf.Levels = nil
	for _, block := range content.Blocks {
		lc := logging.LevelConfig{Pattern: block.Labels[0]}
		_, err := decodeAttributes(block.Body, levelSchema, evalCtx, map[string]attrSetter{
			"level": stringSetter(&lc.Level),
		})
		if err != nil {
			return fmt.Errorf("level %q, %w", lc.Pattern, err)
		}
		if _, ok := logging.ParseLogLevelP(lc.Level); !ok {
			return fmt.Errorf("level %q, invalid log level %q", lc.Pattern, lc.Level)
		}
		conf.Levels = append(conf.Levels, lc)
	}
	return nil
}

func decodeHttp(conf *HttpConfig, body hcl.Body, evalCtx *hcl.EvalContext) error {
	_, err := decodeAttributes(body, httpSchema, evalCtx, map[string]attrSetter{
		"listen":           stringListSetter(&conf.Listen),
		"debug":            boolSetter(&conf.Debug),
		"shutdown_timeout": durationSetter(&conf.ShutdownTimeout),
	})
	return err
}

func decodeCache(conf *CacheConfig, body hcl.Body, evalCtx *hcl.EvalContext) error {
	_, err := decodeAttributes(body, cacheSchema, evalCtx, map[string]attrSetter{
		"enabled":  boolSetter(&conf.Enabled),
		"capacity": uint64Setter(&conf.Capacity),
		"ttl":      durationSetter(&conf.TTL),
	})
	return err
}

func stringSetter(dst *string) attrSetter {
	return func(value cty.Value) error {
		if value.Type() != cty.String {
			return fmt.Errorf("value is not a string, %s", value.Type().FriendlyName())
		}
		*dst = value.AsString()
		return nil
	}
}

func stringListSetter(dst *[]string) attrSetter {
	return func(value cty.Value) error {
		if value.Type() == cty.String {
			*dst = []string{value.AsString()}
			return nil
		}
		if !value.CanIterateElements() {
			return fmt.Errorf("value is not a list, %s", value.Type().FriendlyName())
		}
		list := make([]string, 0, value.LengthInt())
		for it := value.ElementIterator(); it.Next(); {
			_, v := it.Element()
			if v.Type() != cty.String {
				return fmt.Errorf("list element is not a string, %s", v.Type().FriendlyName())
			}
			list = append(list, v.AsString())
		}
		*dst = list
		return nil
	}
}

func intSetter(dst *int) attrSetter {
	return func(value cty.Value) error {
		return gocty.FromCtyValue(value, dst)
	}
}

func uint64Setter(dst *uint64) attrSetter {
	return func(value cty.Value) error {
		return gocty.FromCtyValue(value, dst)
	}
}

func boolSetter(dst *bool) attrSetter {
	return func(value cty.Value) error {
		switch value.Type() {
		case cty.Bool:
			*dst = value.True()
			return nil
		case cty.String:
			switch strings.ToLower(value.AsString()) {
			case "true", "t", "yes", "y":
				*dst = true
				return nil
			case "false", "f", "no", "n":
				*dst = false
				return nil
			}
			return fmt.Errorf("%s is not bool compatible", value.AsString())
		default:
			return fmt.Errorf("value is not a bool, %s", value.Type().FriendlyName())
		}
	}
}

// durationSetter accepts "300ms", "30s", "5m", "1h" or a number of seconds.
func durationSetter(dst *time.Duration) attrSetter {
	return func(value cty.Value) error {
		switch value.Type() {
		case cty.Number:
			f, _ := value.AsBigFloat().Float64()
			*dst = time.Duration(f * float64(time.Second))
			return nil
		case cty.String:
			d, err := time.ParseDuration(value.AsString())
			if err != nil {
				return err
			}
			*dst = d
			return nil
		default:
			return fmt.Errorf("value is not a duration, %s", value.Type().FriendlyName())
		}
	}
}
