package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"

	"meshplanner/pkg/concurrent"
	"meshplanner/pkg/meshmodel"
	"meshplanner/pkg/planner"
	"meshplanner/pkg/planstore"
)

var (
	scenarioDir = flag.String("dir", "scenarios", "directory of scenario JSON files, one meshmodel.Request per file")
	storeDir    = flag.String("storedir", "meshplannerDB", "plan history pebble db directory")
	numWorkers  = flag.Int("workers", 4, "number of concurrent planning workers")
)

// batchResult is one scenario's outcome, carrying its own error rather
// than failing the whole run -- §5's "multiple independent plan calls
// MAY run in parallel" clause treats each scenario as fully isolated.
type batchResult struct {
	Filename string
	Saved    string
	Err      error
}

func main() {
	flag.Parse()

	entries, err := os.ReadDir(*scenarioDir)
	if err != nil {
		log.Fatal(err)
	}

	var scenarioFiles []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		scenarioFiles = append(scenarioFiles, e.Name())
	}
	sort.Strings(scenarioFiles)

	store, err := planstore.Open(*storeDir)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	pool := concurrent.NewWorkerPool[concurrent.ScenarioJob, batchResult](*numWorkers, len(scenarioFiles))
	pool.Start(func(job concurrent.ScenarioJob) batchResult {
		nodes, edges, cfg := job.Request.Resolve()
		plan, err := planner.Plan(nodes, edges, cfg)
		if err != nil {
			return batchResult{Filename: job.Filename, Err: err}
		}

		saved := planstore.Filename(len(nodes), time.Now())
		if err := store.Save(saved, plan); err != nil {
			return batchResult{Filename: job.Filename, Err: err}
		}
		return batchResult{Filename: job.Filename, Saved: saved}
	})

	bar := progressbar.NewOptions(len(scenarioFiles),
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][1/1][reset] planning mesh topology scenarios..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	go func() {
		for _, name := range scenarioFiles {
			raw, err := os.ReadFile(filepath.Join(*scenarioDir, name))
			if err != nil {
				log.Printf("reading %s: %v", name, err)
				continue
			}
			var req meshmodel.Request
			if err := json.Unmarshal(raw, &req); err != nil {
				log.Printf("parsing %s: %v", name, err)
				continue
			}
			pool.AddJob(concurrent.ScenarioJob{Filename: name, Request: req})
		}
		pool.Close()
	}()

	failures := 0
	for res := range pool.CollectResults() {
		bar.Add(1)
		if res.Err != nil {
			failures++
			fmt.Printf("\n%s: FAILED: %v\n", res.Filename, res.Err)
			continue
		}
		fmt.Printf("\n%s: planned -> %s\n", res.Filename, res.Saved)
	}
	pool.Wait()

	fmt.Printf("\ndone: %d scenario(s), %d failure(s)\n", len(scenarioFiles), failures)
}
