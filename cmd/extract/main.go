package main

// Run the extraction pipeline against a local file without persisting:
//   go run ./cmd/extract -strategy pattern ./cv.pdf

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"cv-backend/internal/bootstrap"
	"cv-backend/internal/cvs"
	"cv-backend/internal/extract"
	"cv-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()

	strategy := flag.String("strategy", cfg.ExtractionStrategy, "Field extraction strategy (llm or pattern)")
	model := flag.String("model", cfg.LLMModel, "LLM model")
	textOnly := flag.Bool("text", false, "Print the extracted text only")
	outPath := flag.String("out", "", "Path to write JSON output (optional)")
	flag.Parse()

	if flag.NArg() != 1 {
		exitErr("usage: extract [flags] <file>")
	}
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		exitErr(fmt.Sprintf("read file: %v", err))
	}
	fileName := filepath.Base(path)
	mimeType := http.DetectContentType(data)

	ctx := context.Background()
	text, err := extract.ExtractTextFromBytes(ctx, data, mimeType, fileName)
	if err != nil {
		exitErr(fmt.Sprintf("extract text: %v", err))
	}
	if *textOnly {
		fmt.Println(text)
		return
	}

	cfg.ExtractionStrategy = config.NormalizeStrategy(*strategy, cfg.OpenAIAPIKey)
	cfg.LLMModel = strings.TrimSpace(*model)
	fx, used, err := bootstrap.BuildFieldExtractor(cfg)
	if err != nil {
		exitErr(err.Error())
	}
	candidate, err := fx.Extract(ctx, text)
	if err != nil {
		exitErr(fmt.Sprintf("%s extraction: %v", used, err))
	}

	pretty, err := json.MarshalIndent(cvs.Normalize(candidate, text), "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}
	pretty = append(pretty, '\n')

	if *outPath != "" {
		if err := os.WriteFile(*outPath, pretty, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	if _, err := os.Stdout.Write(pretty); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
