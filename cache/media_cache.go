package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"StageFM/logger"
	"StageFM/model"

	"github.com/redis/go-redis/v9"
)

const (
	descriptionKeyPrefix = "description:"
	sourceKeyPrefix      = "audiosource:"
	waveformKeyPrefix    = "waveform:"

	descriptionTTL = 24 * time.Hour
	sourceTTL      = 30 * time.Minute
	waveformTTL    = 6 * time.Hour

	cacheTimeout = 5 * time.Second
)

// GetDescription returns the cached video description, or miss=false.
func GetDescription(videoID string) (string, bool) {
	data, ok := getBytes(descriptionKeyPrefix + videoID)
	if !ok {
		return "", false
	}
	return string(data), true
}

// SetDescription caches a video description.
func SetDescription(videoID, description string) {
	setBytes(descriptionKeyPrefix+videoID, []byte(description), descriptionTTL)
}

// GetSourceData returns cached resolved source data for a video.
func GetSourceData(videoID string) (*model.SourceData, bool) {
	data, ok := getBytes(sourceKeyPrefix + videoID)
	if !ok {
		return nil, false
	}
	var src model.SourceData
	if err := json.Unmarshal(data, &src); err != nil {
		logger.Warn("corrupt source cache entry, dropping",
			logger.String("videoId", videoID), logger.ErrorField(err))
		return nil, false
	}
	return &src, true
}

// SetSourceData caches resolved source data. Source URLs expire upstream,
// so the TTL is deliberately short.
func SetSourceData(videoID string, src *model.SourceData) {
	data, err := json.Marshal(src)
	if err != nil {
		return
	}
	setBytes(sourceKeyPrefix+videoID, data, sourceTTL)
}

// GetWaveformData returns cached precomputed waveform peaks.
func GetWaveformData(videoID string) ([]byte, bool) {
	return getBytes(waveformKeyPrefix + videoID)
}

// SetWaveformData caches precomputed waveform peaks.
func SetWaveformData(videoID string, data []byte) {
	setBytes(waveformKeyPrefix+videoID, data, waveformTTL)
}

// getBytes reads a key. Any failure, including a missing client, degrades
// to a cache miss.
func getBytes(key string) ([]byte, bool) {
	if RedisClient == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	data, err := RedisClient.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("cache read failed", logger.String("key", key), logger.ErrorField(err))
		}
		return nil, false
	}
	return data, true
}

// setBytes writes a key best-effort.
func setBytes(key string, data []byte, ttl time.Duration) {
	if RedisClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	if err := RedisClient.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Warn("cache write failed", logger.String("key", key), logger.ErrorField(err))
	}
}
