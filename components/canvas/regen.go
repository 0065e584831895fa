package canvas

import (
	"context"
	"fmt"
)

// chartTarget captures the request inputs of one chart while the session
// lock is held, so generation can run without it.
type chartTarget struct {
	id  int64
	req GenerateChartRequest
}

// SetFilter records a filter value for a column and, when the resulting
// filter state carries active values, regenerates every chart on the active
// page against it. An empty column name is silently ignored: a slicer that
// has not been assigned a column cannot contribute filters.
func (s *Session) SetFilter(ctx context.Context, columnName string, value FilterValue) error {
	if columnName == "" {
		return nil
	}
	s.mu.Lock()
	if value.IsTrivial() {
		delete(s.filters, columnName)
	} else {
		s.filters[columnName] = value.clone()
	}
	s.persistLocked()
	targets := []chartTarget(nil)
	if s.filters.HasActiveValues() {
		targets = s.chartTargetsLocked(allCharts)
	}
	s.mu.Unlock()

	s.launchRegens(ctx, targets)
	return nil
}

// RemoveFilter drops a single column's filter. Remaining active filters
// still trigger a regeneration pass; when the state falls back to empty the
// RefreshOnClear option decides whether charts refresh or keep their last
// artifacts.
func (s *Session) RemoveFilter(ctx context.Context, columnName string) {
	s.mu.Lock()
	delete(s.filters, columnName)
	s.persistLocked()
	targets := []chartTarget(nil)
	if s.filters.HasActiveValues() || s.opts.RefreshOnClear {
		targets = s.chartTargetsLocked(allCharts)
	}
	s.mu.Unlock()

	s.launchRegens(ctx, targets)
}

// ClearAllFilters resets the filter state. By default no regeneration is
// issued and charts keep their last artifacts until the next generation.
func (s *Session) ClearAllFilters(ctx context.Context) {
	s.mu.Lock()
	s.filters = FilterState{}
	s.persistLocked()
	targets := []chartTarget(nil)
	if s.opts.RefreshOnClear {
		targets = s.chartTargetsLocked(allCharts)
	}
	s.mu.Unlock()

	s.launchRegens(ctx, targets)
}

// ApplyColumnSelection pushes a column selector's chosen columns onto its
// linked charts. The column mapping of each linked chart mutates
// synchronously; artifact regeneration runs asynchronously, and only the
// linked charts are touched.
func (s *Session) ApplyColumnSelection(ctx context.Context, selectorID int64, columns []string) error {
	s.mu.Lock()
	widget, ok := s.pages[s.current].Widget(selectorID)
	if !ok {
		s.mu.Unlock()
		return ErrWidgetNotFound
	}
	selector, ok := widget.(*ColumnSelectorWidget)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("canvas: widget %d is not a column selector", selectorID)
	}
	linked := make(map[int64]bool, len(selector.LinkedChartIDs))
	for _, id := range selector.LinkedChartIDs {
		linked[id] = true
	}
	for _, id := range s.pages[s.current].order {
		if !linked[id] {
			continue
		}
		chart, ok := s.pages[s.current].pairs[id].widget.(*ChartWidget)
		if !ok {
			continue
		}
		if chart.ColumnMapping == nil {
			chart.ColumnMapping = map[string]any{}
		}
		chart.ColumnMapping["columns"] = append([]string(nil), columns...)
	}
	s.persistLocked()
	targets := s.chartTargetsLocked(func(c *ChartWidget) bool {
		return linked[c.ID]
	})
	s.mu.Unlock()

	s.launchRegens(ctx, targets)
	return nil
}

// RegenerateCharts forces a regeneration pass over the active page with the
// current filter state.
func (s *Session) RegenerateCharts(ctx context.Context) {
	s.mu.Lock()
	targets := s.chartTargetsLocked(allCharts)
	s.mu.Unlock()
	s.launchRegens(ctx, targets)
}

func allCharts(*ChartWidget) bool { return true }

// chartTargetsLocked snapshots the regeneration inputs of the active page's
// charts that match the predicate.
func (s *Session) chartTargetsLocked(match func(*ChartWidget) bool) []chartTarget {
	if s.opts.Generator == nil {
		return nil
	}
	page := s.pages[s.current]
	var targets []chartTarget
	for _, id := range page.order {
		chart, ok := page.pairs[id].widget.(*ChartWidget)
		if !ok || !match(chart) {
			continue
		}
		targets = append(targets, chartTarget{
			id: chart.ID,
			req: GenerateChartRequest{
				ProjectID:     s.opts.ProjectID,
				ChartType:     chart.ChartType,
				ColumnMapping: cloneAnyMap(chart.ColumnMapping),
				TuningParams:  cloneAnyMap(chart.TuningParams),
				Filters:       s.filters.Clone(),
			},
		})
	}
	return targets
}

// launchRegens fans one goroutine per chart. Results merge back under the
// session lock, and a chart removed while its request was in flight is
// simply dropped.
func (s *Session) launchRegens(ctx context.Context, targets []chartTarget) {
	for _, target := range targets {
		target := target
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			artifact, err := s.opts.Generator.GenerateChart(ctx, target.req)
			if err != nil {
				s.record(ctx, "canvas.chart.regenerate_failed", map[string]any{
					"chart_id": target.id,
					"error":    err.Error(),
				})
				return
			}
			s.mergeArtifact(target.id, artifact)
		}()
	}
}

// mergeArtifact installs a freshly generated artifact if the chart still
// exists on any page.
func (s *Session) mergeArtifact(id int64, artifact ChartArtifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, page := range s.pages {
		pair, ok := page.pairs[id]
		if !ok {
			continue
		}
		chart, ok := pair.widget.(*ChartWidget)
		if !ok {
			return
		}
		chart.Artifact = artifact
		s.persistLocked()
		return
	}
}

// Flush blocks until all in-flight chart regenerations have merged.
func (s *Session) Flush() {
	s.inflight.Wait()
}
