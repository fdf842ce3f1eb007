// Command company processes every disclosure one company filed over a date
// range and prints the structured records as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"edinet_insights/pkg/core/config"
	"edinet_insights/pkg/core/edinet"
	"edinet_insights/pkg/core/logging"
	"edinet_insights/pkg/core/pipeline"
)

func main() {
	edinetCode := flag.String("edinet-code", "", "EDINET code of the filer, e.g. E02367")
	startDate := flag.String("start-date", "", "range start, YYYY-MM-DD")
	endDate := flag.String("end-date", "", "range end, YYYY-MM-DD")
	docTypes := flag.String("doc-types", "", "comma-separated document type codes, e.g. 160,180")
	output := flag.String("output", "", "write JSON to this file instead of stdout")
	flag.Parse()

	if *edinetCode == "" || *startDate == "" || *endDate == "" {
		flag.Usage()
		os.Exit(2)
	}

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

	start, err := edinet.ParseDate(*startDate)
	if err != nil {
		log.Fatalf("Invalid start date: %v", err)
	}
	end, err := edinet.ParseDate(*endDate)
	if err != nil {
		log.Fatalf("Invalid end date: %v", err)
	}
	var typeCodes []string
	if *docTypes != "" {
		typeCodes = strings.Split(*docTypes, ",")
	}

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
	orch, err := pipeline.New(pipeline.Options{Client: client, Log: logger})
	if err != nil {
		logger.Fatal("pipeline setup failed", zap.Error(err))
	}

	processed, err := orch.CompanyDateRange(context.Background(), *edinetCode, start, end, typeCodes)
	if err != nil {
		logger.Fatal("processing failed", zap.Error(err))
	}

	encoded, err := json.MarshalIndent(processed, "", "  ")
	if err != nil {
		logger.Fatal("encoding results failed", zap.Error(err))
	}
	if *output != "" {
		if err := os.WriteFile(*output, encoded, 0o644); err != nil {
			logger.Fatal("writing output failed", zap.Error(err))
		}
		fmt.Printf("Wrote %d record(s) to %s\n", len(processed), *output)
		return
	}
	fmt.Println(string(encoded))
}
