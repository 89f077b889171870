// Package config 从命令行参数和 FLOORPLAN_ 环境变量加载配置
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/zooyer/floorplan"
	"github.com/zooyer/floorplan/model"
	"github.com/zooyer/floorplan/ocr"
	"github.com/zooyer/floorplan/raster"
	"github.com/zooyer/floorplan/utils"
	"github.com/zooyer/floorplan/vector"
)

const (
	// EnvPrefix 环境变量前缀，如 FLOORPLAN_MODE、FLOORPLAN_MAX_DIMENSION
	EnvPrefix = "FLOORPLAN"

	DefaultLogLevel = "info"
	Version         = "1.0.0"
)

// ErrVersion 请求打印版本号
var ErrVersion = errors.New("version requested")

// Config 命令行程序的全部配置
type Config struct {
	Path string // 待提取的文件，来自第一个位置参数

	Mode  string
	Type  string
	Serve bool // 以 MCP stdio 模式运行

	Pretty      bool
	Output      string
	LogLevel    string
	Interactive bool

	Padding            float64
	ApplyScale         bool
	MaterializeInserts bool
	MaxDepth           int

	MaxDimension   int
	HoughThreshold int
	MinLineLength  int
	MaxLineGap     int
	MinContourArea float64
	BlockSize      int
	ThresholdC     float64

	OCR     bool
	OCRLang string
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	r := raster.DefaultOptions()
	return &Config{
		Mode:           string(model.ModeFull),
		Type:           string(floorplan.TypeAuto),
		LogLevel:       DefaultLogLevel,
		Padding:        utils.DefaultPadding,
		MaxDepth:       vector.DefaultMaxDepth,
		MaxDimension:   r.MaxDimension,
		HoughThreshold: r.HoughThreshold,
		MinLineLength:  r.MinLineLength,
		MaxLineGap:     r.MaxLineGap,
		MinContourArea: r.MinContourArea,
		BlockSize:      r.BlockSize,
		ThresholdC:     r.C,
		OCRLang:        ocr.DefaultLanguage,
	}
}

// Load 解析命令行参数（不含程序名），优先级：命令行 > 环境变量 > 默认值
func Load(name string, args []string, stderr io.Writer) (*Config, error) {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return nil, ErrVersion
		}
	}

	cfg := DefaultConfig()
	v := viper.New()
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)

	setupViperEnvironment(v, cfg)
	defineCommandLineFlags(fs, cfg)
	bindFlagsToViper(v, fs)
	setupUsageMessage(fs, name, stderr)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	populateConfigFromViper(v, cfg)
	if fs.NArg() > 0 {
		cfg.Path = fs.Arg(0)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

var keys = []string{
	"mode", "type", "serve", "pretty", "output", "loglevel", "interactive",
	"padding", "apply-scale", "materialize-inserts", "max-depth",
	"max-dimension", "hough-threshold", "min-line-length", "max-line-gap",
	"min-contour-area", "block-size", "threshold-c", "ocr", "ocr-lang",
}

func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("type", cfg.Type)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("padding", cfg.Padding)
	v.SetDefault("max-depth", cfg.MaxDepth)
	v.SetDefault("max-dimension", cfg.MaxDimension)
	v.SetDefault("hough-threshold", cfg.HoughThreshold)
	v.SetDefault("min-line-length", cfg.MinLineLength)
	v.SetDefault("max-line-gap", cfg.MaxLineGap)
	v.SetDefault("min-contour-area", cfg.MinContourArea)
	v.SetDefault("block-size", cfg.BlockSize)
	v.SetDefault("threshold-c", cfg.ThresholdC)
	v.SetDefault("ocr-lang", cfg.OCRLang)
}

func defineCommandLineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("mode", cfg.Mode, "Output mode: 'full' includes block templates, 'base' omits them")
	fs.String("type", cfg.Type, "Source type: auto, dxf, pdf or image")
	fs.Bool("serve", cfg.Serve, "Run as an MCP stdio tool server")
	fs.Bool("pretty", cfg.Pretty, "Indent JSON output")
	fs.StringP("output", "o", cfg.Output, "Write JSON to this file instead of stdout")
	fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.Bool("interactive", cfg.Interactive, "Pick the input file with a dialog and wait before exit")

	fs.Float64("padding", cfg.Padding, "Vector bounds padding ratio")
	fs.Bool("apply-scale", cfg.ApplyScale, "Convert output coordinates to meters")
	fs.Bool("materialize-inserts", cfg.MaterializeInserts, "Expand block references into world-space instances")
	fs.Int("max-depth", cfg.MaxDepth, "Maximum nesting depth when expanding block references")

	fs.Int("max-dimension", cfg.MaxDimension, "Downscale images whose long side exceeds this (0 disables)")
	fs.Int("hough-threshold", cfg.HoughThreshold, "Hough accumulator threshold")
	fs.Int("min-line-length", cfg.MinLineLength, "Minimum detected line length in pixels")
	fs.Int("max-line-gap", cfg.MaxLineGap, "Maximum gap bridged inside a line in pixels")
	fs.Float64("min-contour-area", cfg.MinContourArea, "Minimum room contour area in pixels")
	fs.Int("block-size", cfg.BlockSize, "Adaptive threshold window size (odd)")
	fs.Float64("threshold-c", cfg.ThresholdC, "Adaptive threshold constant")

	fs.Bool("ocr", cfg.OCR, "Recognize text in raster sources (requires the ocr build tag)")
	fs.String("ocr-lang", cfg.OCRLang, "Tesseract languages, e.g. eng or eng+chi_sim")
}

func bindFlagsToViper(v *viper.Viper, fs *pflag.FlagSet) {
	for _, key := range keys {
		_ = v.BindPFlag(key, fs.Lookup(key))
	}
}

func setupUsageMessage(fs *pflag.FlagSet, name string, w io.Writer) {
	fs.Usage = func() {
		fmt.Fprintf(w, "Usage of %s:\n", name)
		fmt.Fprintf(w, "\nfloorplan - extract geometry, layers, bounds and units from DXF drawings, images and scanned PDFs\n\n")
		fmt.Fprintf(w, "  %s [options] <file>\n\n", name)
		fmt.Fprintf(w, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(w, "\nExamples:\n")
		fmt.Fprintf(w, "  %s plan.dxf                       # full mode, JSON on stdout\n", name)
		fmt.Fprintf(w, "  %s --mode=base --pretty plan.dxf  # without block templates\n", name)
		fmt.Fprintf(w, "  %s -o plan.json scan.png          # raster source\n", name)
		fmt.Fprintf(w, "  %s --serve                        # MCP stdio server\n", name)
		fmt.Fprintf(w, "\nEnvironment Variables:\n")
		fmt.Fprintf(w, "  %s_<OPTION>  any option, upper-cased with '-' replaced by '_' (e.g. %s_MAX_DIMENSION)\n", EnvPrefix, EnvPrefix)
	}
}

func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Type = v.GetString("type")
	cfg.Serve = v.GetBool("serve")
	cfg.Pretty = v.GetBool("pretty")
	cfg.Output = v.GetString("output")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.Interactive = v.GetBool("interactive")

	cfg.Padding = v.GetFloat64("padding")
	cfg.ApplyScale = v.GetBool("apply-scale")
	cfg.MaterializeInserts = v.GetBool("materialize-inserts")
	cfg.MaxDepth = v.GetInt("max-depth")

	cfg.MaxDimension = v.GetInt("max-dimension")
	cfg.HoughThreshold = v.GetInt("hough-threshold")
	cfg.MinLineLength = v.GetInt("min-line-length")
	cfg.MaxLineGap = v.GetInt("max-line-gap")
	cfg.MinContourArea = v.GetFloat64("min-contour-area")
	cfg.BlockSize = v.GetInt("block-size")
	cfg.ThresholdC = v.GetFloat64("threshold-c")

	cfg.OCR = v.GetBool("ocr")
	cfg.OCRLang = v.GetString("ocr-lang")
}

// Validate 检查配置取值
func (c *Config) Validate() error {
	switch model.Mode(c.Mode) {
	case model.ModeFull, model.ModeBase:
	default:
		return fmt.Errorf("mode must be either 'full' or 'base', got %q", c.Mode)
	}

	switch floorplan.SourceType(c.Type) {
	case floorplan.TypeAuto, floorplan.TypeDXF, floorplan.TypePDF, floorplan.TypeImage:
	default:
		return fmt.Errorf("type must be one of auto, dxf, pdf, image, got %q", c.Type)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.Padding < 0 {
		return errors.New("padding must not be negative")
	}
	if c.MaxDepth < 1 {
		return errors.New("max-depth must be at least 1")
	}
	if c.MaxDimension < 0 {
		return errors.New("max-dimension must not be negative")
	}
	if c.BlockSize < 3 || c.BlockSize%2 == 0 {
		return errors.New("block-size must be an odd number >= 3")
	}
	if c.HoughThreshold < 1 || c.MinLineLength < 0 || c.MaxLineGap < 0 {
		return errors.New("hough parameters must be positive")
	}
	if c.MinContourArea < 0 {
		return errors.New("min-contour-area must not be negative")
	}
	if c.OCR && c.OCRLang == "" {
		return errors.New("ocr-lang cannot be empty when ocr is enabled")
	}
	return nil
}

// NeedsInput 既没有给出文件也不是服务模式
func (c *Config) NeedsInput() bool {
	return c.Path == "" && !c.Serve
}

// IsDebug 是否输出调试日志
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// Options 转换成提取参数
func (c *Config) Options() floorplan.Options {
	opts := floorplan.DefaultOptions()
	opts.Mode = model.Mode(c.Mode)
	opts.Type = floorplan.SourceType(c.Type)
	opts.Padding = c.Padding
	opts.ApplyScale = c.ApplyScale
	opts.MaterializeInserts = c.MaterializeInserts
	opts.MaxInsertDepth = c.MaxDepth

	opts.Raster.MaxDimension = c.MaxDimension
	opts.Raster.HoughThreshold = c.HoughThreshold
	opts.Raster.MinLineLength = c.MinLineLength
	opts.Raster.MaxLineGap = c.MaxLineGap
	opts.Raster.MinContourArea = c.MinContourArea
	opts.Raster.BlockSize = c.BlockSize
	opts.Raster.C = c.ThresholdC

	opts.OCR = c.OCR
	opts.OCRLanguage = c.OCRLang
	return opts
}

// String 配置摘要，用于调试日志
func (c *Config) String() string {
	return fmt.Sprintf("Config{Path: %s, Mode: %s, Type: %s, Serve: %t, LogLevel: %s, Padding: %g, ApplyScale: %t, MaterializeInserts: %t, OCR: %t}",
		c.Path, c.Mode, c.Type, c.Serve, c.LogLevel, c.Padding, c.ApplyScale, c.MaterializeInserts, c.OCR)
}
