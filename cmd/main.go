package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/ncruces/zenity"
	"github.com/spf13/pflag"
	"github.com/zooyer/golib/xos"

	"github.com/zooyer/floorplan"
	"github.com/zooyer/floorplan/config"
	"github.com/zooyer/floorplan/mcpserver"
	"github.com/zooyer/floorplan/model"
)

// 退出码
const (
	exitOK      = 0
	exitExtract = 1
	exitUsage   = 2
)

// 交互模式下的文件选择和退出前暂停，测试时替换
var (
	pause      = xos.PauseExit
	selectFile = func() (string, error) {
		return zenity.SelectFile(
			zenity.Title("选择图纸"),
			zenity.FileFilters{
				{Name: "图纸", Patterns: []string{"*.dxf", "*.pdf", "*.png", "*.jpg", "*.jpeg", "*.tif", "*.tiff", "*.bmp", "*.webp", "*.gif"}, CaseFold: true},
			},
		)
	}
)

func setupLogging(cfg *config.Config, stderr io.Writer) {
	log.SetOutput(stderr)
	log.SetFlags(0)
	switch {
	case cfg.IsDebug():
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	case cfg.Serve, cfg.LogLevel == "warn", cfg.LogLevel == "error":
		// stdio 模式下标准输出属于协议，普通日志关闭
		log.SetOutput(io.Discard)
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	name := filepath.Base(os.Args[0])
	cfg, err := config.Load(name, args, stderr)
	if err != nil {
		switch {
		case errors.Is(err, config.ErrVersion):
			fmt.Fprintf(stdout, "%s %s\n", name, config.Version)
			return exitOK
		case errors.Is(err, pflag.ErrHelp):
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	setupLogging(cfg, stderr)

	if cfg.Serve {
		server, err := mcpserver.NewServer(cfg)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
		if err = server.Run(context.Background()); err != nil {
			fmt.Fprintln(stderr, err)
			return exitExtract
		}
		return exitOK
	}

	if cfg.Interactive {
		defer pause()
	}

	if cfg.NeedsInput() {
		if !cfg.Interactive {
			fmt.Fprintln(stderr, "missing input file (use --interactive to pick one)")
			return exitUsage
		}
		if cfg.Path, err = selectFile(); err != nil {
			if errors.Is(err, zenity.ErrCanceled) {
				fmt.Fprintln(stderr, "已取消")
				return exitUsage
			}
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
	}

	log.Printf("extracting %s", cfg.Path)
	result, err := floorplan.Extract(cfg.Path, cfg.Options())
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitExtract
	}
	log.Printf("%s: %d entities, %d layers, %d diagnostics", result.Source, result.EntityCount, result.LayerCount, len(result.Diagnostics))
	if cfg.IsDebug() {
		for _, d := range result.Diagnostics {
			log.Print(d)
		}
	}

	if err = write(cfg, result, stdout); err != nil {
		fmt.Fprintln(stderr, err)
		return exitExtract
	}
	return exitOK
}

func write(cfg *config.Config, result *model.Result, stdout io.Writer) error {
	var (
		data []byte
		err  error
	)
	if cfg.Pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	data = append(data, '\n')

	if cfg.Output == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err = os.WriteFile(cfg.Output, data, 0644); err != nil {
		return err
	}
	log.Println("写入文件:", cfg.Output)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
