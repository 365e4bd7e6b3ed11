package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"fakenews_detector/internal/config"
	"fakenews_detector/internal/engine"
	"fakenews_detector/internal/ingest"
	"fakenews_detector/internal/model"
	"fakenews_detector/internal/textnorm"
	"fakenews_detector/internal/trends"
)

type stdLogger struct{}

func (stdLogger) Log(level, stage, message, detail string) {
	log.Printf("[%s] %s: %s (%s)", level, stage, message, detail)
}

func main() {
	configPath := flag.String("config", "fnd.yaml", "path to configuration file")
	inputPath := flag.String("in", "", "submission file to classify (.txt, .pdf or .docx)")
	inlineText := flag.String("text", "", "inline text to classify")
	batchPath := flag.String("batch", "", "file with one submission per line")
	features := flag.Bool("features", false, "include top contributing features")
	trendsFor := flag.String("trends", "", "print top keywords for a category (fake or real) and exit")
	limit := flag.Int("limit", 10, "number of trend rows to print")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("configuration failed: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("trend store failed: %v", err)
	}
	recorder := trends.NewRecorder(store, textnorm.English(), stdLogger{}, cfg.TrendQueue)
	defer recorder.Close()

	if *trendsFor != "" {
		printTrends(recorder, *trendsFor, *limit)
		return
	}

	m, err := model.LoadFile(cfg.ModelPath, cfg.MaxFeatures)
	if err != nil {
		log.Fatalf("model load failed: %v", err)
	}

	engCfg := engine.DefaultConfig()
	engCfg.BatchWorkers = cfg.BatchWorkers
	engCfg.MaxBatchItems = cfg.MaxBatchItems
	eng := engine.New(m, recorder, stdLogger{}, engCfg)

	switch {
	case *batchPath != "":
		items, err := readLines(*batchPath)
		if err != nil {
			log.Fatalf("read batch file: %v", err)
		}
		resp, err := eng.AnalyzeBatch(engine.BatchRequest{Items: items})
		if err != nil {
			log.Fatalf("batch rejected: %v", err)
		}
		printJSON(resp)
	case *inputPath != "" || *inlineText != "":
		text := *inlineText
		if *inputPath != "" {
			text, err = ingest.ExtractText(*inputPath)
			if err != nil {
				log.Fatalf("extract text: %v", err)
			}
		}
		resp, err := eng.Analyze(engine.AnalyzeRequest{
			Text:            text,
			ContentType:     engine.ContentTypeText,
			IncludeFeatures: *features,
		})
		if err != nil {
			log.Fatalf("analysis rejected: %v", err)
		}
		printJSON(resp)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func openStore(cfg config.Config) (trends.Store, error) {
	switch cfg.TrendStore {
	case "sqlite":
		return trends.OpenSQLite(cfg.TrendDBPath)
	case "postgres":
		return trends.OpenPostgres(cfg.PostgresDSN)
	default:
		return trends.NewMemoryStore(), nil
	}
}

func printTrends(recorder *trends.Recorder, category string, limit int) {
	counters, err := recorder.TopKeywords(category, limit)
	if err != nil {
		log.Fatalf("trend query failed: %v", err)
	}
	for _, c := range counters {
		fmt.Printf("%-24s %6d  last seen %s\n", c.Keyword, c.Frequency, c.LastSeen.Format("2006-01-02 15:04"))
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			out = append(out, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan batch file: %w", err)
	}
	return out, nil
}

func printJSON(v any) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("encode response: %v", err)
	}
	fmt.Println(string(raw))
}
