package backoffice

import (
	"context"
	"encoding/json"
)

func (s *Service) levelsCacheKey() string {
	return s.cachePrefix + "agent_levels:all"
}

// cachedLevels returns the cached ordered list. False when caching is
// disabled, the key is absent, or the payload does not decode.
func (s *Service) cachedLevels(ctx context.Context) ([]AgentLevel, bool) {
	if s.redisClient == nil {
		return nil, false
	}

	raw, err := s.redisClient.Get(ctx, s.levelsCacheKey()).Bytes()
	if err != nil {
		return nil, false
	}

	var levels []AgentLevel
	if err := json.Unmarshal(raw, &levels); err != nil {
		return nil, false
	}
	return levels, true
}

// storeLevels caches the ordered list. Failures are logged and ignored; the
// cache is an optimization, never a source of truth.
func (s *Service) storeLevels(ctx context.Context, levels []AgentLevel) {
	if s.redisClient == nil {
		return
	}

	raw, err := json.Marshal(levels)
	if err != nil {
		s.log.Errorw("failed to encode levels for cache", "error", err)
		return
	}
	if err := s.redisClient.Set(ctx, s.levelsCacheKey(), raw, s.cacheTTL).Err(); err != nil {
		s.log.Warnw("failed to cache levels", "error", err)
	}
}

// invalidateLevels drops the cached list after any mutation.
func (s *Service) invalidateLevels(ctx context.Context) {
	if s.redisClient == nil {
		return
	}
	s.redisClient.Del(ctx, s.levelsCacheKey())
}
