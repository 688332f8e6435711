package location

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"mission-tracker-service/internal/domain"
	"mission-tracker-service/internal/ports"
)

// RedisProvider reads the tracked device's latest position from a Redis
// GEO set, the same shape used by live courier/driver location feeds:
// the device (or its gateway) publishes with GEOADD, this provider polls
// with GEOPOS.
//
// A missing member means the device has not published yet (Initializing).
// A transport error marks the provider Failed, and failure is permanent:
// the mission does not retry a dead feed.
type RedisProvider struct {
	rdb    *redis.Client
	key    string
	member string

	mu         sync.Mutex
	failed     bool
	failReason string
	lastPos    domain.Coordinate
	hasPos     bool
}

func NewRedisProvider(rdb *redis.Client, key, member string) (*RedisProvider, error) {
	if key == "" || member == "" {
		return nil, fmt.Errorf("redis provider: key and member must be non-empty")
	}
	return &RedisProvider{rdb: rdb, key: key, member: member}, nil
}

// Status polls GEOPOS and caches the fetched position, so the
// CurrentPosition call that follows on the same tick does not hit Redis
// twice.
func (p *RedisProvider) Status(ctx context.Context) (ports.ProviderStatus, string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failed {
		return ports.StatusFailed, p.failReason
	}

	pos, err := p.rdb.GeoPos(ctx, p.key, p.member).Result()
	if err != nil {
		p.failed = true
		p.failReason = fmt.Sprintf("redis geopos %s/%s: %v", p.key, p.member, err)
		return ports.StatusFailed, p.failReason
	}

	if len(pos) == 0 || pos[0] == nil {
		// No sample published yet.
		return ports.StatusInitializing, ""
	}

	p.lastPos = domain.Coordinate{Lat: pos[0].Latitude, Lon: pos[0].Longitude}
	p.hasPos = true
	return ports.StatusRunning, ""
}

func (p *RedisProvider) CurrentPosition(ctx context.Context) (domain.Coordinate, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failed {
		return domain.Coordinate{}, fmt.Errorf("redis provider: failed: %s", p.failReason)
	}
	if !p.hasPos {
		return domain.Coordinate{}, fmt.Errorf("redis provider: no position yet for %s/%s", p.key, p.member)
	}
	return p.lastPos, nil
}
