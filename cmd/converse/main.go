// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/converse"
	"github.com/poiesic/converse/chat"
)

func main() {
	app := &cli.App{
		Name:  "converse",
		Usage: "Conversational assistant over your documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Directory holding indexes and conversation history",
				Value:   "./converse-data",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest documents into an index",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "index",
						Aliases:  []string{"i"},
						Usage:    "Index name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "all-MiniLM-L12-v2",
					},
				},
				ArgsUsage: "FILE...",
			},
			{
				Name:   "chat",
				Usage:  "Chat with an index interactively",
				Action: chatCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "index",
						Aliases: []string{"i"},
						Usage:   "Index name (for vector retrieval)",
					},
					&cli.StringFlag{
						Name:  "conversation",
						Usage: "Conversation name",
						Value: "default",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of supporting documents per question",
						Value: chat.DefaultTopK,
					},
					&cli.BoolFlag{
						Name:  "lexical",
						Usage: "Retrieve by keyword ranking instead of embeddings",
					},
					&cli.StringSliceFlag{
						Name:  "source",
						Usage: "File to ingest into the session store (lexical mode)",
					},
				},
			},
			{
				Name:   "indexes",
				Usage:  "List indexes with their models and chunk counts",
				Action: indexesCommand,
			},
			{
				Name:   "reset-history",
				Usage:  "Clear a conversation's history",
				Action: resetHistoryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "conversation",
						Usage: "Conversation name",
						Value: "default",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openAssistant(c *cli.Context, embeddingModel string) (*converse.Assistant, error) {
	cfg := &fileConfig{}
	if path := c.String("config"); path != "" {
		loaded, err := loadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	dataDir := c.String("data-dir")
	if cfg.DataDir != "" && !c.IsSet("data-dir") {
		dataDir = cfg.DataDir
	}

	return converse.NewAssistant(dataDir, converse.WithAIConfig(cfg.aiConfig(embeddingModel)))
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("no files given")
	}

	ctx := context.Background()
	model := c.String("embedding-model")

	assistant, err := openAssistant(c, model)
	if err != nil {
		return err
	}
	defer assistant.Close()

	store, err := assistant.CreateIndex(ctx, c.String("index"), model)
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := assistant.NewIngestionPipeline(store)
	if err != nil {
		return err
	}

	written, err := p.Run(ctx, c.Args().Slice())
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Ingested %d files into %q (%d chunks)\n",
		c.NArg(), c.String("index"), written)
	return nil
}

func chatCommand(c *cli.Context) error {
	ctx := context.Background()

	assistant, err := openAssistant(c, "")
	if err != nil {
		return err
	}
	defer assistant.Close()

	conversation := c.String("conversation")
	opts := []chat.EngineOption{chat.WithTopK(c.Int("top-k"))}

	var engine *chat.Engine
	if c.Bool("lexical") {
		engine, err = assistant.NewLexicalChatEngine(ctx, conversation, c.StringSlice("source"), opts...)
	} else {
		index := c.String("index")
		if index == "" {
			return fmt.Errorf("--index is required unless --lexical is set")
		}
		engine, err = assistant.NewChatEngine(ctx, conversation, index, opts...)
	}
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Enter your question or Q to exit.\n🧑 ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if strings.EqualFold(question, "q") {
			break
		}

		answer, err := engine.Ask(ctx, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		fmt.Printf("   🔎 Search Query: %s\n", answer.SearchQuery)
		fmt.Printf("🤖 %s\n\n", answer.Text)
	}
	return scanner.Err()
}

func indexesCommand(c *cli.Context) error {
	ctx := context.Background()

	assistant, err := openAssistant(c, "")
	if err != nil {
		return err
	}
	defer assistant.Close()

	summaries, err := assistant.Indexes(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No indexes registered.")
		return nil
	}

	fmt.Printf("%-20s %-32s %10s %8s\n", "NAME", "MODEL", "DIMENSION", "CHUNKS")
	for _, s := range summaries {
		fmt.Printf("%-20s %-32s %10d %8d\n", s.Name, s.Model, s.Dimension, s.Chunks)
	}
	return nil
}

func resetHistoryCommand(c *cli.Context) error {
	ctx := context.Background()

	assistant, err := openAssistant(c, "")
	if err != nil {
		return err
	}
	defer assistant.Close()

	conversation := c.String("conversation")
	if err := assistant.ResetHistory(ctx, conversation); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Cleared history for conversation %q\n", conversation)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
