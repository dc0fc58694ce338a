package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/machbase/neo-calc/mods/logging"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

type Config struct {
	Calc  CalcConfig
	Log   logging.Config
	Http  HttpConfig
	Cache CacheConfig
}

type CalcConfig struct {
	Posture  string
	Grouping string
}

type HttpConfig struct {
	Listen          []string
	Debug           bool
	ShutdownTimeout time.Duration
}

type CacheConfig struct {
	Enabled  bool
	Capacity uint64
	TTL      time.Duration
}

// DefaultConfig is the text printed by `neocalc gen-config`,
// Load of this content yields Default().
var DefaultConfig = []byte(`
calc {
    posture  = "strict"
    grouping = "left"
}

log {
    filename             = "-"
    append               = true
    rotate_schedule      = "@midnight"
    max_size             = 10
    max_backups          = 1
    max_age              = 7
    compress             = false
    utc                  = false
    prefix_width         = 10
    enable_source_location = false
    default_level        = env("NEOCALC_LOG_LEVEL", "INFO")

    level "httpd*" {
        level = "INFO"
    }
}

http {
    listen           = ["127.0.0.1:5680"]
    debug            = false
    shutdown_timeout = "3s"
}

cache {
    enabled  = true
    capacity = 500
    ttl      = "1m"
}
`)

func Default() *Config {
	return &Config{
		Calc: CalcConfig{
			Posture:  "strict",
			Grouping: "left",
		},
		Log: logging.Config{
			Filename:           "-",
			Append:             true,
			RotateSchedule:     "@midnight",
			MaxSize:            10,
			MaxBackups:         1,
			MaxAge:             7,
			DefaultPrefixWidth: 10,
			DefaultLevel:       "INFO",
			Levels: []logging.LevelConfig{
				{Pattern: "httpd*", Level: "INFO"},
			},
		},
		Http: HttpConfig{
			Listen:          []string{"127.0.0.1:5680"},
			ShutdownTimeout: 3 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 500,
			TTL:      time.Minute,
		},
	}
}

var DefaultFunctions = map[string]function.Function{
	"env":   GetEnvFunc,
	"upper": stdlib.UpperFunc,
	"lower": stdlib.LowerFunc,
}

var GetEnvFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{
			Name:             "env",
			Type:             cty.String,
			AllowDynamicType: true,
		},
		{
			Name:      "default",
			Type:      cty.String,
			AllowNull: true,
		},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		in := args[0].AsString()
		def := ""
		if !args[1].IsNull() {
			def = args[1].AsString()
		}
		out, ok := os.LookupEnv(in)
		if !ok {
			out = def
		}
		return cty.StringVal(out), nil
	},
})

func newEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: DefaultFunctions,
		Variables: map[string]cty.Value{},
	}
}

// Load parses HCL content on top of Default().
func Load(content []byte) (*Config, error) {
	hclFile, hclDiag := hclsyntax.ParseConfig(content, "nofile.hcl", hcl.Pos{Line: 1})
	if hclDiag.HasErrors() {
		return nil, errors.New(hclDiag.Error())
	}
	return decode(hclFile.Body)
}

// LoadFile parses and merges the given files, later files override earlier ones.
func LoadFile(files ...string) (*Config, error) {
	hclFiles := make([]*hcl.File, 0, len(files))
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		hclFile, hclDiag := hclsyntax.ParseConfig(content, file, hcl.Pos{Line: 1})
		if hclDiag.HasErrors() {
			return nil, errors.New(hclDiag.Error())
		}
		hclFiles = append(hclFiles, hclFile)
	}
	ret := Default()
	for _, f := range hclFiles {
		if err := decodeInto(ret, f.Body); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "calc"},
		{Type: "log"},
		{Type: "http"},
		{Type: "cache"},
	},
}

func decode(body hcl.Body) (*Config, error) {
	ret := Default()
	if err := decodeInto(ret, body); err != nil {
		return nil, err
	}
	return ret, nil
}

func decodeInto(conf *Config, body hcl.Body) error {
	content, diag := body.Content(rootSchema)
	if diag.HasErrors() {
		return errors.New(diag.Error())
	}
	evalCtx := newEvalContext()
	for _, block := range content.Blocks {
		var err error
		switch block.Type {
		case "calc":
			err = decodeCalc(&conf.Calc, block.Body, evalCtx)
		case "log":
			err = decodeLog(&conf.Log, block.Body, evalCtx)
		case "http":
			err = decodeHttp(&conf.Http, block.Body, evalCtx)
		case "cache":
			err = decodeCache(&conf.Cache, block.Body, evalCtx)
		}
		if err != nil {
			return fmt.Errorf("%s block, %w", block.Type, err)
		}
	}
	return nil
}
