package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"StageFM/cache"
	"StageFM/config"
	"StageFM/core/describe"
	"StageFM/logger"
	"StageFM/model"
	"StageFM/repository"
	"StageFM/storage"

	"github.com/gorilla/mux"
)

const storageTimeout = 15 * time.Second

// APIHandler handles all API requests.
type APIHandler struct {
	musicalRepo repository.MusicalRepository
	ytClient    *describe.YouTubeClient
	cfg         *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	musicalRepo repository.MusicalRepository,
	ytClient *describe.YouTubeClient,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		musicalRepo: musicalRepo,
		ytClient:    ytClient,
		cfg:         cfg,
	}
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, map[string]string{"error": message})
}

// GetMusicalsHandler returns id and title of every musical in the catalog.
// An optional ?q= filter matches case-insensitively against titles.
func (h *APIHandler) GetMusicalsHandler(w http.ResponseWriter, r *http.Request) {
	all := h.musicalRepo.GetAllMusicalBaseData()

	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	if q == "" {
		respondWithJSON(w, http.StatusOK, all)
		return
	}
	filtered := make([]model.MusicalBaseData, 0, len(all))
	for _, m := range all {
		if strings.Contains(strings.ToLower(m.Title), q) {
			filtered = append(filtered, m)
		}
	}
	respondWithJSON(w, http.StatusOK, filtered)
}

// GetMusicalHandler returns the full data of one musical.
func (h *APIHandler) GetMusicalHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	musical, ok := h.musicalRepo.GetMusical(id)
	if !ok {
		respondWithError(w, http.StatusNotFound, "musical not found")
		return
	}
	respondWithJSON(w, http.StatusOK, musical)
}

// descriptionResponse carries a video's metadata, raw description and the
// timestamps extracted from it.
type descriptionResponse struct {
	Video       *model.VideoData  `json:"video,omitempty"`
	Description string            `json:"description"`
	TimeStamps  []model.TimeStamp `json:"timeStamps"`
}

// GetDescriptionHandler returns the description of a video together with
// the timestamps extracted from it. A failed upstream fetch is reported to
// the caller immediately; there is no retry.
func (h *APIHandler) GetDescriptionHandler(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["videoId"]

	if desc, ok := cache.GetDescription(videoID); ok {
		respondWithJSON(w, http.StatusOK, descriptionResponse{
			Description: desc,
			TimeStamps:  describe.ExtractTimeStamps(desc),
		})
		return
	}

	video, desc, err := h.ytClient.FetchVideo(r.Context(), videoID)
	if err != nil {
		if errors.Is(err, describe.ErrVideoNotFound) {
			respondWithError(w, http.StatusNotFound, "video not found")
			return
		}
		logger.Error("description fetch failed",
			logger.String("videoId", videoID), logger.ErrorField(err))
		respondWithError(w, http.StatusBadGateway, "failed to fetch video description")
		return
	}
	cache.SetDescription(videoID, desc)

	respondWithJSON(w, http.StatusOK, descriptionResponse{
		Video:       video,
		Description: desc,
		TimeStamps:  describe.ExtractTimeStamps(desc),
	})
}

// GetAudioSourceHandler resolves the audio source for a video: a signed
// URL into object storage plus its MIME type.
func (h *APIHandler) GetAudioSourceHandler(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["videoId"]

	if src, ok := cache.GetSourceData(videoID); ok {
		respondWithJSON(w, http.StatusOK, src)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storageTimeout)
	defer cancel()

	signedURL, err := storage.PresignAudioURL(ctx, h.cfg.MinioBucket, videoID)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			respondWithError(w, http.StatusNotFound, "audio not found")
			return
		}
		logger.Error("audio source resolution failed",
			logger.String("videoId", videoID), logger.ErrorField(err))
		respondWithError(w, http.StatusInternalServerError, "failed to resolve audio source")
		return
	}

	src := &model.SourceData{Src: signedURL, Type: "audio/mpeg"}
	cache.SetSourceData(videoID, src)
	respondWithJSON(w, http.StatusOK, src)
}

// GetWaveformHandler returns precomputed waveform peak data for a video.
func (h *APIHandler) GetWaveformHandler(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["videoId"]

	if data, ok := cache.GetWaveformData(videoID); ok {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storageTimeout)
	defer cancel()

	data, err := storage.FetchWaveformData(ctx, h.cfg.MinioBucket, videoID)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			respondWithError(w, http.StatusNotFound, "waveform data not found")
			return
		}
		logger.Error("waveform fetch failed",
			logger.String("videoId", videoID), logger.ErrorField(err))
		respondWithError(w, http.StatusInternalServerError, "failed to fetch waveform data")
		return
	}
	cache.SetWaveformData(videoID, data)

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(data)
}
