package location

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mission-tracker-service/internal/domain"
	"mission-tracker-service/internal/geo"
	"mission-tracker-service/internal/ports"
)

// SimulatedProvider replays a scripted track at a constant ground speed,
// interpolating linearly between track points. It reports Initializing
// during a configurable warmup window (modeling sensor acquisition) and
// Running afterwards.
type SimulatedProvider struct {
	track    []domain.Coordinate
	speedMPS float64
	warmup   time.Duration

	started time.Time
	now     func() time.Time

	// Cumulative distance from the track head to each point, precomputed
	// so position lookup is a single scan.
	cumulative []float64
}

func NewSimulatedProvider(track []domain.Coordinate, speedMPS float64, warmup time.Duration) (*SimulatedProvider, error) {
	if len(track) < 2 {
		return nil, fmt.Errorf("simulated provider: track needs at least 2 points, got %d", len(track))
	}
	if speedMPS <= 0 {
		return nil, fmt.Errorf("simulated provider: speed must be positive, got %v", speedMPS)
	}

	cumulative := make([]float64, len(track))
	for i := 1; i < len(track); i++ {
		cumulative[i] = cumulative[i-1] + geo.Distance(track[i-1], track[i])
	}

	p := &SimulatedProvider{
		track:      track,
		speedMPS:   speedMPS,
		warmup:     warmup,
		now:        time.Now,
		cumulative: cumulative,
	}
	p.started = p.now()
	return p, nil
}

// WithClock replaces the provider's time source. Test hook.
func (p *SimulatedProvider) WithClock(now func() time.Time) *SimulatedProvider {
	p.now = now
	p.started = now()
	return p
}

func (p *SimulatedProvider) Status(ctx context.Context) (ports.ProviderStatus, string) {
	if p.now().Sub(p.started) < p.warmup {
		return ports.StatusInitializing, ""
	}
	return ports.StatusRunning, ""
}

func (p *SimulatedProvider) CurrentPosition(ctx context.Context) (domain.Coordinate, error) {
	elapsed := p.now().Sub(p.started) - p.warmup
	if elapsed < 0 {
		return domain.Coordinate{}, fmt.Errorf("simulated provider: not running yet")
	}

	travelled := elapsed.Seconds() * p.speedMPS
	total := p.cumulative[len(p.cumulative)-1]
	if travelled >= total {
		return p.track[len(p.track)-1], nil
	}

	for i := 1; i < len(p.track); i++ {
		if travelled > p.cumulative[i] {
			continue
		}
		segment := p.cumulative[i] - p.cumulative[i-1]
		if segment == 0 {
			return p.track[i], nil
		}
		frac := (travelled - p.cumulative[i-1]) / segment
		a, b := p.track[i-1], p.track[i]
		return domain.Coordinate{
			Lat: a.Lat + (b.Lat-a.Lat)*frac,
			Lon: a.Lon + (b.Lon-a.Lon)*frac,
		}, nil
	}

	return p.track[len(p.track)-1], nil
}

// ParseCoord parses a "lat,lon" string as used in the track section of
// the config file.
func ParseCoord(input string) (domain.Coordinate, error) {
	parts := strings.Split(input, ",")
	if len(parts) != 2 {
		return domain.Coordinate{}, fmt.Errorf("invalid coordinate %q", input)
	}

	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return domain.Coordinate{}, fmt.Errorf("invalid lat/lon in %q", input)
	}

	return domain.Coordinate{Lat: lat, Lon: lon}, nil
}
