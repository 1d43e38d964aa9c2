package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sifthq/corral/internal/core/community"
	"github.com/sifthq/corral/internal/core/graph"
	"github.com/sifthq/corral/internal/core/join"
	"github.com/sifthq/corral/internal/core/model"
	"github.com/sifthq/corral/internal/core/path"
	"github.com/sifthq/corral/internal/core/store"
	"github.com/sifthq/corral/internal/source"
)

// ParameterError reports a caller-supplied window, threshold, or bound that
// is out of its valid range. It is raised before any scan runs and fails
// the single call.
type ParameterError struct {
	Param  string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Reason)
}

// Options tune one analysis run. Zero values fall back to the defaults
// below.
type Options struct {
	GraphWorkers int // worker partitions for the pairwise edge scan
	JoinWorkers  int // worker partitions for the two-sided joins

	EdgeDayWindow int     // default similarity-edge day window
	EdgeThreshold float64 // default similarity-edge threshold

	StartCap int // path-search start candidate cap
	Budget   int // path-search node-expansion budget
}

const (
	DefaultEdgeDayWindow = 30
	DefaultEdgeThreshold = 0.7
	DefaultStartCap      = 25
	DefaultBudget        = 100000
)

func (o Options) withDefaults() Options {
	if o.GraphWorkers < 1 {
		o.GraphWorkers = 1
	}
	if o.JoinWorkers < 1 {
		o.JoinWorkers = 1
	}
	if o.EdgeDayWindow == 0 {
		o.EdgeDayWindow = DefaultEdgeDayWindow
	}
	if o.EdgeThreshold == 0 {
		o.EdgeThreshold = DefaultEdgeThreshold
	}
	if o.StartCap == 0 {
		o.StartCap = DefaultStartCap
	}
	if o.Budget == 0 {
		o.Budget = DefaultBudget
	}
	return o
}

// Engine is the library surface of the correlation core: one method per
// query, each a pure function of the loaded snapshot and its parameters.
// The snapshot is loaded once at construction and never mutated, so
// concurrent callers need no locking.
type Engine struct {
	RunID string

	store   *store.Store
	joins   *join.Engine
	builder *graph.Builder
	opts    Options
}

// NewEngine bulk-loads the incident source and builds the indexed
// snapshot. The source is only used here; nothing is re-read afterwards.
func NewEngine(ctx context.Context, src source.IncidentSource, opts Options) (*Engine, error) {
	opts = opts.withDefaults()

	incidents, err := src.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load incidents: %w", err)
	}

	s := store.Load(incidents)
	return &Engine{
		RunID:   uuid.New().String(),
		store:   s,
		joins:   join.New(s, opts.JoinWorkers),
		builder: graph.NewBuilder(opts.GraphWorkers),
		opts:    opts,
	}, nil
}

// Size reports the number of usable records in the snapshot.
func (e *Engine) Size() int { return e.store.Len() }

// Skipped reports records excluded during load: year-less records and
// impossible calendar dates.
func (e *Engine) Skipped() (malformed, invalidDate int) { return e.store.Skipped() }

// BuildGraph computes (or returns the cached) similarity graph for the
// given parameters. The returned graph is an immutable value owned by the
// caller.
func (e *Engine) BuildGraph(dayWindow int, threshold float64) (*graph.Graph, error) {
	if dayWindow < 0 {
		return nil, &ParameterError{Param: "dayWindow", Reason: "must be non-negative"}
	}
	if threshold < 0 || threshold > 1 {
		return nil, &ParameterError{Param: "threshold", Reason: "must be within [0,1]"}
	}
	return e.builder.Build(e.store, graph.Params{DayWindow: dayWindow, Threshold: threshold}), nil
}

func (e *Engine) defaultGraph() *graph.Graph {
	return e.builder.Build(e.store, graph.Params{
		DayWindow: e.opts.EdgeDayWindow,
		Threshold: e.opts.EdgeThreshold,
	})
}

// GroupsInRegions finds groups active in both regions within a month
// window of the anchor attack.
func (e *Engine) GroupsInRegions(region1, region2 string, months int) ([]model.RegionPairGroup, error) {
	if err := requireRegions(region1, region2); err != nil {
		return nil, err
	}
	if months < 0 {
		return nil, &ParameterError{Param: "months", Reason: "must be non-negative"}
	}
	return e.joins.GroupsInRegions(region1, region2, months), nil
}

// CrossRegionGroups is the day-window variant of GroupsInRegions.
func (e *Engine) CrossRegionGroups(region1, region2 string, days int) ([]model.CrossRegionGroup, error) {
	if err := requireRegions(region1, region2); err != nil {
		return nil, err
	}
	if days < 0 {
		return nil, &ParameterError{Param: "days", Reason: "must be non-negative"}
	}
	return e.joins.CrossRegionGroups(region1, region2, days), nil
}

// CityClusters finds cities attacked by different groups within the hour
// window, top 10.
func (e *Engine) CityClusters(hours int) ([]model.CityCluster, error) {
	if hours < 0 {
		return nil, &ParameterError{Param: "hours", Reason: "must be non-negative"}
	}
	return e.joins.CityClusters(hours), nil
}

// CitiesMultipleGroups finds city windows with at least minGroups distinct
// groups inside the hour window.
func (e *Engine) CitiesMultipleGroups(minGroups, hours int) ([]model.CityGroupWindow, error) {
	if minGroups < 1 {
		return nil, &ParameterError{Param: "minGroups", Reason: "must be positive"}
	}
	if hours < 0 {
		return nil, &ParameterError{Param: "hours", Reason: "must be non-negative"}
	}
	return e.joins.CitiesMultipleGroups(minGroups, hours), nil
}

// SequentialTargetAttacks finds cross-group attacks on the same target
// type strictly after the anchor and at most `hours` later, top 10 by gap.
func (e *Engine) SequentialTargetAttacks(hours int) ([]model.SequentialAttack, error) {
	if hours < 0 {
		return nil, &ParameterError{Param: "hours", Reason: "must be non-negative"}
	}
	return e.joins.SequentialTargetAttacks(hours), nil
}

// HighFrequencyAttacks surfaces the dates one group attacked at least
// minAttacks times, in date order.
func (e *Engine) HighFrequencyAttacks(group string, minAttacks int) ([]model.BurstDay, error) {
	if group == "" {
		return nil, &ParameterError{Param: "group", Reason: "must not be empty"}
	}
	if minAttacks < 1 {
		return nil, &ParameterError{Param: "minAttacks", Reason: "must be positive"}
	}
	return e.joins.HighFrequencyAttacks(group, minAttacks), nil
}

// WeaponPatternChanges lists groups that switched weapon types, top 10.
func (e *Engine) WeaponPatternChanges() []model.WeaponPattern {
	return e.joins.WeaponPatternChanges()
}

// RegionalAttackClusters builds per-region monthly histograms, top 10.
func (e *Engine) RegionalAttackClusters() []model.RegionalPattern {
	return e.joins.RegionalAttackClusters()
}

// GroupActivities returns one group's incidents between two dates.
func (e *Engine) GroupActivities(group string, start, end time.Time) ([]model.GroupActivity, error) {
	if group == "" {
		return nil, &ParameterError{Param: "group", Reason: "must not be empty"}
	}
	if end.Before(start) {
		return nil, &ParameterError{Param: "end", Reason: "must not precede start"}
	}
	return e.joins.GroupActivities(group, start, end), nil
}

// SimilarTactics finds third groups sharing the tactic sets of both
// subject groups.
func (e *Engine) SimilarTactics(group1, group2 string) ([]model.SharedTacticGroup, error) {
	if group1 == "" || group2 == "" {
		return nil, &ParameterError{Param: "group", Reason: "must not be empty"}
	}
	return e.joins.SimilarTactics(group1, group2), nil
}

// TransitiveConnections lists groups sharing regions with the subject,
// top 10.
func (e *Engine) TransitiveConnections(group string) ([]model.ConnectedGroup, error) {
	if group == "" {
		return nil, &ParameterError{Param: "group", Reason: "must not be empty"}
	}
	return e.joins.TransitiveConnections(group), nil
}

// PotentialCoordination aggregates coordination-preset scoring per group
// pair inside the day window, capped at 100 pairs.
func (e *Engine) PotentialCoordination(daysWindow int, threshold float64) ([]model.CoordinationPair, error) {
	if daysWindow < 0 {
		return nil, &ParameterError{Param: "daysWindow", Reason: "must be non-negative"}
	}
	if threshold < 0 || threshold > 1 {
		return nil, &ParameterError{Param: "threshold", Reason: "must be within [0,1]"}
	}
	return e.joins.PotentialCoordination(daysWindow, threshold), nil
}

// AttackChains finds similarity-graph paths between two groups' incidents
// over the engine's default edge parameters. maxHops bounds the number of
// edges on a path.
func (e *Engine) AttackChains(startGroup, endGroup string, maxHops int) (path.Result, error) {
	if startGroup == "" || endGroup == "" {
		return path.Result{}, &ParameterError{Param: "group", Reason: "must not be empty"}
	}
	if maxHops < 1 {
		return path.Result{}, &ParameterError{Param: "maxHops", Reason: "must be positive: a path needs at least one hop"}
	}
	f := path.NewFinder(e.store, e.defaultGraph())
	return f.AttackChains(startGroup, endGroup, maxHops, e.opts.StartCap, e.opts.Budget), nil
}

// IndirectConnections finds paths between two groups through at most
// maxIntermediaries intermediate incidents (maxIntermediaries + 1 edges),
// each edge scoring at least 0.7, all nodes within daysWindow days of the
// path's first incident.
func (e *Engine) IndirectConnections(group1, group2 string, maxIntermediaries, daysWindow int) (path.Result, error) {
	if group1 == "" || group2 == "" {
		return path.Result{}, &ParameterError{Param: "group", Reason: "must not be empty"}
	}
	if maxIntermediaries < 0 {
		return path.Result{}, &ParameterError{Param: "maxIntermediaries", Reason: "must be non-negative"}
	}
	if daysWindow < 0 {
		return path.Result{}, &ParameterError{Param: "daysWindow", Reason: "must be non-negative"}
	}
	f := path.NewFinder(e.store, e.defaultGraph())
	return f.IndirectConnections(group1, group2, maxIntermediaries, daysWindow, e.opts.StartCap, e.opts.Budget), nil
}

// Campaigns clusters the default similarity graph into campaign
// candidates via label propagation.
func (e *Engine) Campaigns() []model.Campaign {
	return community.NewLabelPropagationDetector().Detect(e.store, e.defaultGraph())
}

func requireRegions(region1, region2 string) error {
	if region1 == "" || region2 == "" {
		return &ParameterError{Param: "region", Reason: "must not be empty"}
	}
	return nil
}
