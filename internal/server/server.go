package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sifthq/corral/internal/config"
	"github.com/sifthq/corral/internal/core"
	"github.com/sifthq/corral/internal/source"
)

type Server struct {
	Engine *core.Engine
}

// NewServer wires the configured incident source into a freshly loaded
// engine. Environment variables override the TOML file, matching how the
// deployment images inject credentials.
func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Using defaults", cfgPath, err)
		cfg = &config.Config{}
	}

	if kind := os.Getenv("SOURCE_KIND"); kind != "" {
		cfg.Source.Kind = kind
	}
	if path := os.Getenv("SOURCE_PATH"); path != "" {
		cfg.Source.Path = path
	}
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		cfg.Source.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		cfg.Source.User = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		cfg.Source.Password = pass
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
	// The source is a bulk loader; the engine never reads it again.
	if err := src.Close(ctx); err != nil {
		log.Printf("Warning: failed to close incident source: %v", err)
	}

	malformed, invalid := engine.Skipped()
	log.Printf("Loaded %d incidents (skipped %d without year, %d with invalid dates)",
		engine.Size(), malformed, invalid)

	return &Server{Engine: engine}
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

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/status", s.Status)

	q := r.Group("/queries")
	q.POST("/region-groups", s.RegionGroups)
	q.POST("/cross-region-groups", s.CrossRegionGroups)
	q.POST("/city-clusters", s.CityClusters)
	q.POST("/cities-multiple-groups", s.CitiesMultipleGroups)
	q.POST("/sequential-targets", s.SequentialTargets)
	q.POST("/high-frequency", s.HighFrequency)
	q.POST("/group-activities", s.GroupActivities)
	q.POST("/similar-tactics", s.SimilarTactics)
	q.POST("/transitive-connections", s.TransitiveConnections)
	q.POST("/coordination", s.Coordination)
	q.POST("/attack-chains", s.AttackChains)
	q.POST("/indirect-connections", s.IndirectConnections)
	q.GET("/weapon-patterns", s.WeaponPatterns)
	q.GET("/regional-clusters", s.RegionalClusters)
	q.GET("/campaigns", s.Campaigns)

	return r
}

func (s *Server) Status(c *gin.Context) {
	malformed, invalid := s.Engine.Skipped()
	c.JSON(http.StatusOK, gin.H{
		"run_id":            s.Engine.RunID,
		"incidents":         s.Engine.Size(),
		"skipped_no_year":   malformed,
		"skipped_bad_dates": invalid,
	})
}

// respond maps the error taxonomy onto HTTP: parameter errors are the
// caller's fault, anything else is ours. Empty result sets are 200s.
func respond(c *gin.Context, results interface{}, err error) {
	if err != nil {
		var paramErr *core.ParameterError
		if errors.As(err, &paramErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": paramErr.Error()})
			return
		}
		log.Printf("Query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

type RegionGroupsRequest struct {
	Region1 string `json:"region1"`
	Region2 string `json:"region2"`
	Months  int    `json:"months"`
	Days    int    `json:"days"`
}

func (s *Server) RegionGroups(c *gin.Context) {
	var req RegionGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	results, err := s.Engine.GroupsInRegions(req.Region1, req.Region2, req.Months)
	respond(c, results, err)
}

func (s *Server) CrossRegionGroups(c *gin.Context) {
	var req RegionGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	results, err := s.Engine.CrossRegionGroups(req.Region1, req.Region2, req.Days)
	respond(c, results, err)
}

type HoursRequest struct {
	Hours int `json:"hours"`
}

func (s *Server) CityClusters(c *gin.Context) {
	var req HoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	results, err := s.Engine.CityClusters(req.Hours)
	respond(c, results, err)
}

type CitiesMultipleGroupsRequest struct {
	MinGroups int `json:"min_groups"`
	Hours     int `json:"hours"`
}

func (s *Server) CitiesMultipleGroups(c *gin.Context) {
	var req CitiesMultipleGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	results, err := s.Engine.CitiesMultipleGroups(req.MinGroups, req.Hours)
	respond(c, results, err)
}

func (s *Server) SequentialTargets(c *gin.Context) {
	var req HoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	results, err := s.Engine.SequentialTargetAttacks(req.Hours)
	respond(c, results, err)
}

type HighFrequencyRequest struct {
	Group      string `json:"group"`
	MinAttacks int    `json:"min_attacks"`
}

func (s *Server) HighFrequency(c *gin.Context) {
	var req HighFrequencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	results, err := s.Engine.HighFrequencyAttacks(req.Group, req.MinAttacks)
	respond(c, results, err)
}

type GroupActivitiesRequest struct {
	Group string `json:"group"`
	Start string `json:"start"` // YYYY-MM-DD
	End   string `json:"end"`
}

func (s *Server) GroupActivities(c *gin.Context) {
	var req GroupActivitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	start, err := time.Parse("2006-01-02", req.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date"})
		return
	}
	end, err := time.Parse("2006-01-02", req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date"})
		return
	}
	results, err := s.Engine.GroupActivities(req.Group, start, end)
	respond(c, results, err)
}

type GroupPairRequest struct {
	Group1 string `json:"group1"`
	Group2 string `json:"group2"`
}

func (s *Server) SimilarTactics(c *gin.Context) {
	var req GroupPairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	results, err := s.Engine.SimilarTactics(req.Group1, req.Group2)
	respond(c, results, err)
}

type GroupRequest struct {
	Group string `json:"group"`
}

func (s *Server) TransitiveConnections(c *gin.Context) {
	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	results, err := s.Engine.TransitiveConnections(req.Group)
	respond(c, results, err)
}

type CoordinationRequest struct {
	Days      int     `json:"days"`
	Threshold float64 `json:"threshold"`
}

func (s *Server) Coordination(c *gin.Context) {
	var req CoordinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	results, err := s.Engine.PotentialCoordination(req.Days, req.Threshold)
	respond(c, results, err)
}

type AttackChainsRequest struct {
	StartGroup string `json:"start_group"`
	EndGroup   string `json:"end_group"`
	MaxHops    int    `json:"max_hops"`
}

func (s *Server) AttackChains(c *gin.Context) {
	var req AttackChainsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	res, err := s.Engine.AttackChains(req.StartGroup, req.EndGroup, req.MaxHops)
	if err != nil {
		respond(c, nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": res.Paths, "truncated": res.Truncated})
}

type IndirectConnectionsRequest struct {
	Group1            string `json:"group1"`
	Group2            string `json:"group2"`
	MaxIntermediaries int    `json:"max_intermediaries"`
	Days              int    `json:"days"`
}

func (s *Server) IndirectConnections(c *gin.Context) {
	var req IndirectConnectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	res, err := s.Engine.IndirectConnections(req.Group1, req.Group2, req.MaxIntermediaries, req.Days)
	if err != nil {
		respond(c, nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": res.Paths, "truncated": res.Truncated})
}

func (s *Server) WeaponPatterns(c *gin.Context) {
	respond(c, s.Engine.WeaponPatternChanges(), nil)
}

func (s *Server) RegionalClusters(c *gin.Context) {
	respond(c, s.Engine.RegionalAttackClusters(), nil)
}

func (s *Server) Campaigns(c *gin.Context) {
	respond(c, s.Engine.Campaigns(), nil)
}
