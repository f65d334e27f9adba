// Command chromaview generates random watermarked images on parallel workers
// and displays them in the terminal one at a time, in generation order.
// Press Enter for the next image, q to quit.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/chromaview/chromaview"
	"github.com/chromaview/chromaview/viewer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "chromaview:", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file next to the binary provides defaults; flags win over it.
	_ = godotenv.Load()

	var (
		count    = flag.Int("count", envInt("CHROMAVIEW_COUNT", 0), "number of images to generate (prompted if omitted)")
		width    = flag.Int("width", envInt("CHROMAVIEW_WIDTH", 0), "image width in pixels (prompted if omitted)")
		height   = flag.Int("height", envInt("CHROMAVIEW_HEIGHT", 0), "image height in pixels (prompted if omitted)")
		workers  = flag.Int("workers", envInt("CHROMAVIEW_WORKERS", 0), "render workers (default: number of CPUs)")
		queue    = flag.Int("queue", envInt("CHROMAVIEW_QUEUE", 0), "completion queue capacity (default: 2x workers)")
		autoQuit = flag.Bool("auto-quit", envBool("CHROMAVIEW_AUTO_QUIT", true), "exit after the last image instead of waiting for q")
		logPath  = flag.String("log", envStr("CHROMAVIEW_LOG", "chromaview.log"), "log file path (empty to disable logging)")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		level := slog.LevelInfo
		if *verbose {
			level = slog.LevelDebug
		}
		chromaview.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal; the viewer needs one")
	}

	in := bufio.NewReader(os.Stdin)
	if *count < 1 {
		*count = promptInt(in, "Enter number of images to generate: ")
	}
	if *width < 1 {
		*width = promptInt(in, "Enter number of pixels for image width: ")
	}
	if *height < 1 {
		*height = promptInt(in, "Enter number of pixels for image height: ")
	}

	p := chromaview.New(
		chromaview.WithWorkers(*workers),
		chromaview.WithQueueCapacity(*queue),
	)
	results, err := p.Run(context.Background(), *count, *width, *height)
	if err != nil {
		return err
	}
	defer p.Cancel()

	screen, err := viewer.NewTermScreen()
	if err != nil {
		p.Cancel()
		return err
	}

	loop := viewer.New(screen, viewer.WithAutoQuitOnLast(*autoQuit))
	loopErr := loop.Run(results, p.Cancel)
	screen.Close()

	if err := p.Wait(); err != nil {
		return err
	}
	if loopErr != nil {
		return loopErr
	}

	stats := p.Stats()
	fmt.Printf("Displayed %d of %d images.\n", stats.Delivered, stats.Total)
	return nil
}

// promptInt reads an integer >= 1 from the user, reprompting on bad input.
func promptInt(in *bufio.Reader, prompt string) int {
	for {
		fmt.Print(prompt)
		line, err := in.ReadString('\n')
		if err != nil {
			fmt.Fprintln(os.Stderr, "\nchromaview: no input available")
			os.Exit(1)
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Println("Invalid input! Please enter a whole number.")
			continue
		}
		if n < 1 {
			fmt.Println("Input must be greater than or equal to 1.")
			continue
		}
		return n
	}
}

func envStr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
