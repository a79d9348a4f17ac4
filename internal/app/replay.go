package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tapas_chat/internal/classify"
	"tapas_chat/internal/domain"
)

// ReplayResult is the classification of one recorded assistant payload.
type ReplayResult struct {
	File     string           `json:"file"`
	Kinds    []domain.Kind    `json:"kinds"`
	Messages []domain.Message `json:"messages,omitempty"`
	Err      string           `json:"error,omitempty"`
}

// Replay classifies recorded payload files with at most workers in flight.
// Results keep the order of files. A file that is not JSON is classified as text.
func Replay(ctx context.Context, c *classify.Classifier, files []string, workers int) ([]ReplayResult, error) {
	if workers <= 0 {
		workers = 1
	}
	out := make([]ReplayResult, len(files))
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for i, f := range files {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return out, fmt.Errorf("replay interrupted: %w", err)
		}
		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()
			defer sem.Release(1)
			out[i] = replayFile(c, file)
			if out[i].Err != "" {
				log.Warn().Str("file", file).Str("err", out[i].Err).Msg("replay failed")
				return
			}
			log.Debug().Str("file", file).Int("messages", len(out[i].Messages)).Msg("replay ok")
		}(i, f)
	}
	wg.Wait()
	return out, nil
}

func replayFile(c *classify.Classifier, file string) ReplayResult {
	res := ReplayResult{File: file, Kinds: []domain.Kind{}}
	b, err := os.ReadFile(file)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	var payload any
	if json.Unmarshal(b, &payload) != nil {
		payload = string(b)
	}
	res.Messages = c.Classify(payload)
	for _, m := range res.Messages {
		res.Kinds = append(res.Kinds, m.Kind)
	}
	return res
}
