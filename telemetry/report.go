package telemetry

import (
	"fmt"
	"strings"
	"time"
)

// ReportKind selects one of the formatted statistics reports.
type ReportKind int

// Report kinds.
const (
	ReportTimes ReportKind = iota
	ReportPrimitives
	ReportLights
)

func (k ReportKind) String() string {
	switch k {
	case ReportTimes:
		return "rendertimes"
	case ReportPrimitives:
		return "renderstats"
	case ReportLights:
		return "lightstats"
	}
	return "unknown"
}

// ReportKindByName maps a stat name to its report kind.
func ReportKindByName(name string) (ReportKind, bool) {
	for _, k := range []ReportKind{ReportTimes, ReportPrimitives, ReportLights} {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

// FormatReport renders one report. It does not modify the registry.
func (s *FrameStats) FormatReport(kind ReportKind) string {
	var b strings.Builder
	switch kind {
	case ReportTimes:
		s.appendTimes(&b)
	case ReportPrimitives:
		s.appendPrimitives(&b)
	case ReportLights:
		s.appendLights(&b)
	}
	return b.String()
}

func (s *FrameStats) appendTimes(b *strings.Builder) {
	ms := s.Milliseconds

	// Nested phases include their children; subtract to get exclusive times.
	setupWall := ms(PhaseSetupWall) - ms(PhaseSplitWall)
	clipWall := ms(PhaseClipWall) - ms(PhaseSetupWall)
	bsp := ms(PhaseBSP) - ms(PhaseClipWall) - ms(PhaseSetupFlat) - ms(PhaseSetupSprite)

	fmt.Fprintf(b, "W: Render=%2.3f, Split = %2.3f, Setup=%2.3f, Clip=%2.3f\n"+
		"F: Render=%2.3f, Setup=%2.3f\n"+
		"S: Render=%2.3f, Setup=%2.3f\n"+
		"All=%2.3f, Render=%2.3f, Setup=%2.3f, BSP = %2.3f, Portal=%2.3f, Drawcalls=%2.3f, Finish=%2.3f\n",
		ms(PhaseRenderWall), ms(PhaseSplitWall), setupWall, clipWall,
		ms(PhaseRenderFlat), ms(PhaseSetupFlat),
		ms(PhaseRenderSprite), ms(PhaseSetupSprite),
		ms(PhaseAll)+ms(PhaseFinish), ms(PhaseRenderAll), ms(PhaseProcessAll), bsp,
		ms(PhasePortalAll), ms(PhaseDrawCalls), ms(PhaseFinish))
}

func (s *FrameStats) appendPrimitives(b *strings.Builder) {
	c := s.counters
	fmt.Fprintf(b, "Walls: %d (%d splits, %d t-splits, %d vertices)\n"+
		"Flats: %d (%d primitives, %d vertices)\n"+
		"Sprites: %d, Decals=%d, Portals: %d\n",
		c[CounterRenderedLines], c[CounterVertexSplits], c[CounterTextureSplits], c[CounterVertices],
		c[CounterRenderedFlats], c[CounterFlatPrimitives], c[CounterFlatVertices],
		c[CounterRenderedSprites], c[CounterRenderedDecals], c[CounterRenderedPortals])
}

func (s *FrameStats) appendLights(b *strings.Builder) {
	c := s.counters
	fmt.Fprintf(b, "DLight - Walls: %d processed, %d rendered - Flats: %d processed, %d rendered\n",
		c[CounterDLightWallsProcessed], c[CounterDLightWallsRendered],
		c[CounterDLightFlatsProcessed], c[CounterDLightFlatsRendered])
}

// DefaultTimesInterval is how often the timing report is regenerated.
const DefaultTimesInterval = time.Second

// ReportCache serves reports to on-screen stat displays. The timing report
// flickers too much to be read when regenerated every frame, so it is only
// rebuilt once per interval; the count reports are always fresh.
type ReportCache struct {
	stats    *FrameStats
	interval time.Duration
	now      func() time.Time

	times     string
	lastTimes time.Time
	built     bool
}

// NewReportCache creates a cache over stats. A non-positive interval uses
// DefaultTimesInterval.
func NewReportCache(stats *FrameStats, interval time.Duration) *ReportCache {
	if interval <= 0 {
		interval = DefaultTimesInterval
	}
	return &ReportCache{stats: stats, interval: interval, now: time.Now}
}

// Report returns the current text for a report kind.
func (c *ReportCache) Report(kind ReportKind) string {
	if kind != ReportTimes {
		return c.stats.FormatReport(kind)
	}
	t := c.now()
	if !c.built || t.Sub(c.lastTimes) > c.interval {
		c.times = c.stats.FormatReport(ReportTimes)
		c.lastTimes = t
		c.built = true
	}
	return c.times
}
