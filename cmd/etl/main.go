package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/josinaldojr/providers-rag/internal/config"
	"github.com/josinaldojr/providers-rag/internal/db"
	"github.com/josinaldojr/providers-rag/internal/etl"
	"github.com/josinaldojr/providers-rag/internal/geo"
	"github.com/josinaldojr/providers-rag/internal/rag"
)

func main() {
	_ = godotenv.Load()

	csvFlag := flag.String("csv", "MUP_INP_RY24_P03_V10_DY22_PrvSvc.csv", "CMS inpatient provider/service CSV")
	zipsFlag := flag.String("zips", "", "US zips CSV with coordinates (defaults to ZIP_CSV_PATH)")
	flag.Parse()

	ctx := context.Background()
	cfg := config.Load()

	zipsPath := *zipsFlag
	if zipsPath == "" {
		zipsPath = cfg.ZipCSVPath
	}

	var zips *geo.Table
	if table, err := geo.LoadTableFile(zipsPath); err != nil {
		log.Printf("zip table unavailable, loading without coordinates: %v", err)
	} else {
		zips = table
		log.Printf("loaded %d zip codes from %s", table.Len(), zipsPath)
	}

	pool := db.NewPool(cfg.DatabaseURL)
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	f, err := os.Open(*csvFlag)
	if err != nil {
		log.Fatalf("failed to open provider csv: %v", err)
	}
	defer f.Close()

	loader := etl.NewLoader(rag.NewPgRepository(pool), zips)
	stats, err := loader.Run(ctx, f)
	if err != nil {
		log.Fatalf("etl failed: %v", err)
	}

	log.Printf("ETL complete: %d processed, %d skipped, %d geocoded", stats.Processed, stats.Skipped, stats.Geocoded)
}
