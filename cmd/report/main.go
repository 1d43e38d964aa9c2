package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sifthq/corral/internal/config"
	"github.com/sifthq/corral/internal/core"
	"github.com/sifthq/corral/internal/core/path"
	"github.com/sifthq/corral/internal/source"
)

// report runs the full query battery against a configured source and prints
// the results to stdout, one section per query.
func main() {
	cfgPath := flag.String("config", "config/config.toml", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	src, err := openSource(cfg.Source)
	if err != nil {
		log.Fatalf("Failed to open incident source: %v", err)
	}

	ctx := context.Background()
	engine, err := core.NewEngine(ctx, src, core.Options{
		GraphWorkers:  cfg.Concurrency.GraphBuild,
		JoinWorkers:   cfg.Concurrency.JoinScan,
		EdgeDayWindow: cfg.Engine.EdgeDayWindow,
		EdgeThreshold: cfg.Engine.EdgeThreshold,
		StartCap:      cfg.Engine.StartCap,
		Budget:        cfg.Engine.ExpansionBudget,
	})
	if err != nil {
		log.Fatalf("Failed to load incident corpus: %v", err)
	}
	if err := src.Close(ctx); err != nil {
		log.Printf("Warning: failed to close incident source: %v", err)
	}

	malformed, invalid := engine.Skipped()
	fmt.Printf("Loaded %d incidents (skipped %d without year, %d with invalid dates)\n",
		engine.Size(), malformed, invalid)

	runReport(engine)
}

func openSource(cfg config.SourceConfig) (source.IncidentSource, error) {
	switch cfg.Kind {
	case "neo4j":
		return source.NewNeo4jSource(cfg.URI, cfg.User, cfg.Password)
	case "sqlite":
		return source.NewSQLiteSource(cfg.Path)
	case "csv", "":
		return source.NewCSVSource(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}

func section(title string) {
	fmt.Printf("\n=== %s ===\n", title)
}

func runReport(engine *core.Engine) {
	section("Groups active in both Middle East & North Africa and South Asia (6 months)")
	if rows, err := engine.GroupsInRegions("Middle East & North Africa", "South Asia", 6); err != nil {
		log.Printf("query failed: %v", err)
	} else {
		for _, r := range rows {
			fmt.Printf("  %s: %d attacks\n", r.GroupName, r.TotalAttacks)
		}
	}

	section("Groups attacking across regions within 30 days")
	if rows, err := engine.CrossRegionGroups("Middle East & North Africa", "South Asia", 30); err != nil {
		log.Printf("query failed: %v", err)
	} else {
		for _, r := range rows {
			fmt.Printf("  %s: %d attacks across %s\n", r.GroupName, r.TotalAttacks, strings.Join(r.Regions, ", "))
		}
	}

	section("Cities with multi-group activity within 72 hours")
	if rows, err := engine.CityClusters(72); err != nil {
		log.Printf("query failed: %v", err)
	} else {
		for _, r := range rows {
			fmt.Printf("  %s, %s: %d attacks by %s\n", r.City, r.Country, r.AttackCount, strings.Join(r.Groups, ", "))
		}
	}

	section("Cities hit by 3+ groups within 48 hours")
	if rows, err := engine.CitiesMultipleGroups(3, 48); err != nil {
		log.Printf("query failed: %v", err)
	} else {
		for _, r := range rows {
			fmt.Printf("  %s, %s: %d groups (%s)\n", r.City, r.Country, r.GroupCount, strings.Join(r.Groups, ", "))
		}
	}

	section("Sequential attacks on the same target type within 24 hours")
	if rows, err := engine.SequentialTargetAttacks(24); err != nil {
		log.Printf("query failed: %v", err)
	} else {
		for _, r := range rows {
			fmt.Printf("  %s then %s on %s (%s → %s, %dh apart)\n",
				r.FirstGroup, r.SecondGroup, r.TargetType, r.FirstCity, r.SecondCity, r.HoursBetween)
		}
	}

	section("Taliban high-frequency days (3+ attacks)")
	if rows, err := engine.HighFrequencyAttacks("Taliban", 3); err != nil {
		log.Printf("query failed: %v", err)
	} else {
		for _, r := range rows {
			fmt.Printf("  %s: %d attacks (%s)\n", r.Date.Format("2006-01-02"), r.AttackCount, strings.Join(r.Locations, "; "))
		}
	}

	section("Weapon pattern changes over time")
	for _, r := range engine.WeaponPatternChanges() {
		fmt.Printf("  %s: %d distinct weapons\n", r.GroupName, r.UniqueWeapons)
		for _, p := range r.Patterns {
			fmt.Printf("    %d: %s\n", p.Year, p.Weapon)
		}
	}

	section("Monthly attack patterns by region")
	for _, r := range engine.RegionalAttackClusters() {
		fmt.Printf("  %s:\n", r.Region)
		for _, m := range r.Monthly {
			fmt.Printf("    month %2d: %d attacks\n", m.Month, m.Count)
		}
	}

	section("Taliban activity in 2015")
	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2015, 12, 31, 0, 0, 0, 0, time.UTC)
	if rows, err := engine.GroupActivities("Taliban", start, end); err != nil {
		log.Printf("query failed: %v", err)
	} else {
		for _, r := range rows {
			fmt.Printf("  %s: %s, %s (%s on %s, %d killed, %d wounded)\n",
				r.Date.Format("2006-01-02"), r.City, r.Country, r.AttackType, r.TargetType, r.Casualties, r.Wounded)
		}
	}

	section("Groups sharing tactics with Taliban and ISIL")
	if rows, err := engine.SimilarTactics("Taliban", "Islamic State of Iraq and the Levant (ISIL)"); err != nil {
		log.Printf("query failed: %v", err)
	} else {
		for _, r := range rows {
			fmt.Printf("  %s: %d attacks, shares %s\n", r.GroupName, r.AttackCount, strings.Join(r.SharedTactics, ", "))
		}
	}

	section("Groups connected to Taliban through shared regions")
	if rows, err := engine.TransitiveConnections("Taliban"); err != nil {
		log.Printf("query failed: %v", err)
	} else {
		for _, r := range rows {
			fmt.Printf("  %s: %d attacks in %s\n", r.GroupName, r.AttackCount, strings.Join(r.SharedRegions, ", "))
		}
	}

	section("Potential coordination (7 days, similarity >= 0.5)")
	if rows, err := engine.PotentialCoordination(7, 0.5); err != nil {
		log.Printf("query failed: %v", err)
	} else {
		for _, r := range rows {
			fmt.Printf("  %s / %s: score %.1f, avg %.1f days apart, matching %s\n",
				r.Group1, r.Group2, r.SimilarityScore, r.AvgDaysBetween, strings.Join(r.MatchingCriteria, ", "))
			for _, p := range r.SimilarAttacks {
				fmt.Printf("    %s (%s) ~ %s (%s): %.2f\n",
					p.First.Location, p.First.Date.Format("2006-01-02"),
					p.Second.Location, p.Second.Date.Format("2006-01-02"), p.Score)
			}
		}
	}

	section("Attack chains from Taliban to ISIL (max 4 hops)")
	if res, err := engine.AttackChains("Taliban", "Islamic State of Iraq and the Levant (ISIL)", 4); err != nil {
		log.Printf("query failed: %v", err)
	} else {
		printPaths(res)
	}

	section("Indirect connections between Taliban and ISIL (2 intermediaries, 30 days)")
	if res, err := engine.IndirectConnections("Taliban", "Islamic State of Iraq and the Levant (ISIL)", 2, 30); err != nil {
		log.Printf("query failed: %v", err)
	} else {
		printPaths(res)
	}

	section("Detected campaigns")
	for i, c := range engine.Campaigns() {
		fmt.Printf("  campaign %d (%d attacks):\n", i+1, len(c.Members))
		for _, m := range c.Members {
			fmt.Printf("    %d %s\n", m.EventID, m.Group)
		}
	}
}

func printPaths(res path.Result) {
	for _, p := range res.Paths {
		fmt.Printf("  path of %d hops:\n", p.Length)
		for _, n := range p.Nodes {
			fmt.Printf("    %s %s in %s\n", n.Date.Format("2006-01-02"), n.Group, n.City)
		}
	}
	if res.Truncated {
		fmt.Println("  (search budget exhausted, results may be incomplete)")
	}
}
