package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/cliffyan/go-site-search/internal/backend"
	"github.com/cliffyan/go-site-search/internal/config"
	"github.com/cliffyan/go-site-search/internal/logger"
	"github.com/cliffyan/go-site-search/internal/tui"
)

// tuiLogFile 终端界面下日志写入的文件，避免破坏画面
const tuiLogFile = "site-search-tui.log"

func main() {
	cfg, closeLog, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	client := backend.NewClient(cfg.Backend.Endpoint, cfg.GetProxyURL())

	p := tea.NewProgram(tui.New(client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Errorf("❌ TUI failed: %v", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup 加载配置并把日志接到文件
//
// 加载阶段的日志（包括 validate 的修正警告）先写入缓冲区，日志文件就绪后再补写进去。
func setup() (*config.Config, func() error, error) {
	var early bytes.Buffer
	log.SetOutput(&early)
	cfg := config.Load()

	logCfg := cfg.Log
	switch strings.ToLower(logCfg.Output) {
	case "", "stderr", "stdout":
		logCfg.Output = tuiLogFile
	}
	closeLog, err := logger.Setup(logCfg)
	if err != nil {
		log.SetOutput(os.Stderr)
		os.Stderr.Write(early.Bytes())
		return nil, nil, err
	}
	if _, err := log.StandardLogger().Out.Write(early.Bytes()); err != nil {
		closeLog()
		return nil, nil, fmt.Errorf("write startup log: %w", err)
	}

	cfg.Print()
	return cfg, closeLog, nil
}
