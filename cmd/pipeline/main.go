package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"edinet_insights/pkg/core/analysis"
	"edinet_insights/pkg/core/config"
	"edinet_insights/pkg/core/edinet"
	"edinet_insights/pkg/core/llm"
	"edinet_insights/pkg/core/logging"
	"edinet_insights/pkg/core/pipeline"
	"edinet_insights/pkg/core/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Logger setup failed: %v", err)
	}
	defer logger.Sync()
	for _, warning := range cfg.Warnings() {
		logger.Warn(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := edinet.NewClient(edinet.ClientConfig{
		APIKey:         cfg.EdinetAPIKey,
		MaxRetries:     cfg.MaxRetries,
		DelaySeconds:   cfg.DelaySeconds,
		TimeoutSeconds: cfg.TimeoutSeconds,
		DownloadDir:    cfg.DownloadDir,
		CacheDir:       cfg.CacheDir,
		EnableCache:    cfg.CacheEnabled,
		FilingsTTL:     cfg.CacheTTLFilings,
		DocumentsTTL:   cfg.CacheTTLDocuments,
	}, logger)
	if err != nil {
		logger.Fatal("client setup failed", zap.Error(err))
	}

	toolsCfg, err := analysis.LoadToolsConfig("config/models.yaml")
	if err != nil {
		logger.Fatal("tool config invalid", zap.Error(err))
	}
	provider := buildProvider(cfg, toolsCfg)
	tools := buildTools(cfg, toolsCfg)

	opts := pipeline.Options{
		Client:        client,
		Provider:      provider,
		Tools:         tools,
		AnalysisLimit: cfg.AnalysisLimit,
		Log:           logger,
	}
	if cfg.DatabaseURL != "" {
		pool, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		defer pool.Close()
		opts.Repo = store.NewDisclosureRepo(pool)
	}

	orch, err := pipeline.New(opts)
	if err != nil {
		logger.Fatal("pipeline setup failed", zap.Error(err))
	}

	fmt.Println("🚀 EDINET Disclosure Pipeline Starting...")
	fmt.Printf("📅 Lookback window: %d day(s)\n", cfg.DaysBack)

	result, err := orch.Run(ctx, cfg.DaysBack, edinet.FilterOptions{})
	if err != nil {
		logger.Fatal("pipeline run failed", zap.Error(err))
	}

	printReport(result)
}

func buildProvider(cfg *config.Config, toolsCfg *analysis.ToolsConfig) llm.Provider {
	switch toolsCfg.ActiveProvider {
	case "gemini":
		return &llm.GeminiProvider{}
	default:
		if cfg.LLMAPIKey == "" {
			return nil
		}
		return &llm.OpenAIProvider{
			APIKey:        cfg.LLMAPIKey,
			Model:         cfg.LLMModel,
			FallbackModel: cfg.LLMFallbackModel,
		}
	}
}

func buildTools(cfg *config.Config, toolsCfg *analysis.ToolsConfig) []analysis.Tool {
	registry := analysis.Registry()
	var tools []analysis.Tool
	for _, name := range cfg.AnalysisTypes {
		switch name {
		case "one_line_summary":
			tools = append(tools, &analysis.OneLinerTool{Model: toolsCfg.ModelFor(name)})
		case "executive_summary":
			tools = append(tools, &analysis.ExecutiveSummaryTool{Model: toolsCfg.ModelFor(name)})
		default:
			if tool, ok := registry[name]; ok {
				tools = append(tools, tool)
			} else {
				log.Printf("Warning: unknown analysis type %q, skipping.", name)
			}
		}
	}
	return tools
}

func printReport(result *pipeline.RunResult) {
	fmt.Println("\n################################################################################")
	fmt.Println("                     EDINET DISCLOSURE PIPELINE - RUN REPORT")
	fmt.Printf("                     Run ID: %s\n", result.RunID)
	fmt.Println("################################################################################")
	fmt.Printf("\nListed: %d  Matched: %d  Processed: %d  Failed: %d\n",
		result.Listed, result.Matched, len(result.Processed), len(result.Failed))

	for i, processed := range result.Processed {
		rec := processed.Record
		fmt.Printf("\n[%d] %s (%s)\n", i+1, rec.DocID, rec.DocTypeCode)
		if rec.CompanyNameJA != nil {
			fmt.Printf("    Company: %s\n", *rec.CompanyNameJA)
		}
		if rec.DocumentType != nil {
			fmt.Printf("    Document: %s\n", *rec.DocumentType)
		}
		if len(rec.KeyFacts) > 0 {
			facts, _ := json.Marshal(rec.KeyFacts)
			fmt.Printf("    Key facts: %s\n", facts)
		}
		for name, output := range processed.Analyses {
			fmt.Printf("    %s: %s\n", name, output)
		}
	}
	if len(result.Failed) > 0 {
		fmt.Printf("\n⚠️  Failed documents: %v\n", result.Failed)
	}
}
