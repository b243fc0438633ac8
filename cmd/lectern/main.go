package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/lectern"
	blobfs "github.com/w-h-a/lectern/blob/fs"
	blobmemory "github.com/w-h-a/lectern/blob/memory"
	"github.com/w-h-a/lectern/embedder"
	googleembedder "github.com/w-h-a/lectern/embedder/google"
	openaiembedder "github.com/w-h-a/lectern/embedder/openai"
	"github.com/w-h-a/lectern/generator"
	anthropicgenerator "github.com/w-h-a/lectern/generator/anthropic"
	openaigenerator "github.com/w-h-a/lectern/generator/openai"
	lecternhttp "github.com/w-h-a/lectern/server/http"
	"github.com/w-h-a/lectern/store"
	"github.com/w-h-a/lectern/store/memory"
	"github.com/w-h-a/lectern/store/pinecone"
	"github.com/w-h-a/lectern/store/postgres"
)

var (
	cfg struct {
		// Embedder config
		Embedder    string `help:"Embedding provider (openai or google)" default:"openai"`
		EmbedderKey string `help:"API key for the embedder" env:"OPENAI_API_KEY" default:""`
		Model       string `help:"Model identifier for embeddings" default:"text-embedding-ada-002"`
		Dimension   int    `help:"Embedding dimension" default:"1536"`

		// Generator config
		Generator    string `help:"Generation provider (openai or anthropic)" default:"openai"`
		GeneratorKey string `help:"API key for the generator" env:"OPENAI_API_KEY" default:""`
		GeneratorID  string `help:"Model identifier for generation" name:"generator-model" default:"gpt-4o"`

		// Vector store config
		Store         string `help:"Vector store (memory, pinecone, or postgres)" default:"memory"`
		StoreLocation string `help:"Store location (postgres DSN or pinecone control plane URL)" env:"STORE_LOCATION" default:""`
		StoreKey      string `help:"API key for the vector store" env:"PINECONE_API_KEY" default:""`
		Index         string `help:"Vector index name" default:"custom-rag-llm"`
		ListCap       int    `help:"Result cap for full-corpus listing" default:"10000"`
		LocalRanking  bool   `help:"Rank the fetched corpus client-side instead of using the store's top-K query" default:"false"`

		// Blob store config
		BlobDir string `help:"Directory for the local deck archive; in-memory when empty" default:""`

		// Pipeline config
		DataDir string `help:"Directory of decks to ingest on startup" default:""`
		TopK    int    `help:"Number of contexts to retrieve per question" default:"5"`

		// Server config
		Serve bool   `help:"Expose the pipeline over HTTP instead of the interactive loop" default:"false"`
		Addr  string `help:"HTTP listen address" default:":8080"`
	}
)

func main() {
	// Parse inputs
	_ = godotenv.Load()
	_ = kong.Parse(&cfg)
	ctx := context.Background()

	// Create embedder
	var emb embedder.Embedder
	switch cfg.Embedder {
	case "google":
		emb = googleembedder.NewEmbedder(
			embedder.WithApiKey(cfg.EmbedderKey),
			embedder.WithModel(cfg.Model),
		)
	default:
		emb = openaiembedder.NewEmbedder(
			embedder.WithApiKey(cfg.EmbedderKey),
			embedder.WithModel(cfg.Model),
		)
	}

	// Create generator
	var gen generator.Generator
	switch cfg.Generator {
	case "anthropic":
		gen = anthropicgenerator.NewGenerator(
			generator.WithApiKey(cfg.GeneratorKey),
			generator.WithModel(cfg.GeneratorID),
		)
	default:
		gen = openaigenerator.NewGenerator(
			generator.WithApiKey(cfg.GeneratorKey),
			generator.WithModel(cfg.GeneratorID),
		)
	}

	// Create vector store
	var vectorStore store.Store
	switch cfg.Store {
	case "pinecone":
		vectorStore = pinecone.NewStore(
			store.WithLocation(cfg.StoreLocation),
			store.WithApiKey(cfg.StoreKey),
			store.WithListCap(cfg.ListCap),
		)
	case "postgres":
		vectorStore = postgres.NewStore(
			store.WithLocation(cfg.StoreLocation),
			store.WithListCap(cfg.ListCap),
		)
	default:
		vectorStore = memory.NewStore(
			store.WithListCap(cfg.ListCap),
		)
	}

	// Create blob store
	blobStore := blobmemory.NewStore()
	if len(cfg.BlobDir) > 0 {
		var err error
		blobStore, err = blobfs.NewStore(cfg.BlobDir)
		if err != nil {
			log.Fatalf("failed to open blob dir: %v", err)
		}
	}

	// Create assistant
	opts := []lectern.Option{
		lectern.WithIndex(cfg.Index),
		lectern.WithDimension(cfg.Dimension),
		lectern.WithTopK(cfg.TopK),
	}
	if cfg.LocalRanking {
		opts = append(opts, lectern.WithLocalRanking())
	}

	assistant := lectern.New(blobStore, emb, vectorStore, gen, opts...)

	// Ingest startup decks
	if len(cfg.DataDir) > 0 {
		fmt.Println("Processing documents...")
		results, err := assistant.IngestDir(ctx, cfg.DataDir)
		if err != nil {
			log.Fatalf("failed to process %s: %v", cfg.DataDir, err)
		}
		for _, result := range results {
			if result.Err != nil {
				fmt.Printf("✗ %s: %v\n", result.Filename, result.Err)
				continue
			}
			if result.Report.Skipped {
				fmt.Printf("- %s already processed\n", result.Filename)
				continue
			}
			fmt.Printf("✓ %s: %d slides, %d chunks indexed\n", result.Filename, result.Report.Slides, result.Report.Chunks)
		}
	}

	if cfg.Serve {
		fmt.Printf("Listening on %s\n", cfg.Addr)
		if err := http.ListenAndServe(cfg.Addr, lecternhttp.NewHandler(assistant)); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
		return
	}

	// Interactive query loop
	fmt.Println("Ask a question about your lecture materials ('quit' to exit).")

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("Error reading input:", err)
			continue
		}

		query := strings.TrimSpace(input)
		if len(query) == 0 {
			continue
		}
		if strings.EqualFold(query, "quit") {
			break
		}

		answer, err := assistant.Ask(ctx, query)
		if err != nil {
			fmt.Printf("Could not retrieve or generate an answer: %v\n", err)
			continue
		}

		fmt.Println("\nAnswer:")
		fmt.Println(answer.Text)

		if len(answer.Sources) > 0 {
			fmt.Println("\nSources:")
			for _, source := range answer.Sources {
				fmt.Printf("- %s (slide number: %d)\n", source.Filename, source.Slide)
			}
		}
		fmt.Println()
	}
}
