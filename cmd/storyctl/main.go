// Package main 命令行故事工作台：填写参数、生成、复制与朗读
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"story-weaver-api/internal/application/studio"
	"story-weaver-api/internal/config"
	"story-weaver-api/internal/domain/entity"
	"story-weaver-api/internal/infrastructure/desktop"
	"story-weaver-api/internal/interfaces/http/client"
	"story-weaver-api/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		cfg = config.Defaults()
	}

	var req entity.StoryRequest
	pflag.StringVar(&req.Genre, "genre", "", "story genre, e.g. fantasy")
	pflag.StringVar(&req.Setting, "setting", "", "where the story takes place")
	pflag.StringVar(&req.Characters, "characters", "", "characters to feature")
	pflag.StringVar(&req.PlotPoints, "plot", "", "plot points to include")
	endpoint := pflag.String("endpoint", cfg.Client.Endpoint, "generate endpoint URL")
	timeout := pflag.Duration("timeout", cfg.Client.Timeout, "request timeout")
	copyOut := pflag.Bool("copy", false, "copy the story to the clipboard")
	readAloud := pflag.Bool("read-aloud", false, "read the story aloud; Ctrl-C stops playback")
	logLevel := pflag.String("log-level", "warn", "log level")
	pflag.Parse()

	logger.Init(*logLevel, "text", "stderr")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var clip studio.Clipboard
	if cb, ok := desktop.DetectClipboard(); ok {
		clip = cb
	}
	var narrator studio.Narrator
	if n, ok := desktop.DetectNarrator(); ok {
		narrator = n
	}

	s := studio.New(client.New(*endpoint, *timeout), clip, narrator, cfg.Client.CopyIndicator)
	defer func() { _ = s.Close() }()
	s.SetRequest(req)

	fmt.Fprintln(os.Stderr, "Generating...")
	_, genErr := s.Generate(ctx)
	fmt.Println(s.Story())
	if genErr != nil {
		return 1
	}

	if *copyOut {
		if err := s.Copy(ctx); err != nil {
			logger.Error(ctx, "copy failed", err)
		} else if s.Copied() {
			fmt.Fprintln(os.Stderr, "Copied!")
		}
	}

	if *readAloud {
		if err := s.ReadAloud(ctx); err != nil {
			logger.Error(ctx, "read aloud failed", err)
			return 1
		}
		waitForPlayback(ctx, s)
	}
	return 0
}

// waitForPlayback 等待朗读自然结束；收到中断信号时再次触发朗读以停止播放
func waitForPlayback(ctx context.Context, s *studio.Studio) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for s.Reading() {
		select {
		case <-ctx.Done():
			if err := s.ReadAloud(context.Background()); err != nil {
				logger.Error(context.Background(), "failed to stop playback", err)
			}
			return
		case <-ticker.C:
		}
	}
}
