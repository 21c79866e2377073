package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/matt-steen/task-tracker/pkg/task"
	"github.com/rs/zerolog/log"
)

// View is one entry of the view history.
type View struct {
	At          string
	Description string
}

// history keeps views in insertion order, keyed by timestamp.
type history struct {
	views []View
	index map[string]int
}

func newHistory() *history {
	return &history{views: []View{}, index: map[string]int{}}
}

// record adds a view; a timestamp seen before keeps its position and takes the new description.
func (h *history) record(at, description string) {
	if i, ok := h.index[at]; ok {
		h.views[i].Description = description

		return
	}

	h.index[at] = len(h.views)
	h.views = append(h.views, View{At: at, Description: description})
}

// RecordView notes that the task at the 0-based index was viewed at now.
// The view is kept in memory until SaveViewHistory.
func (s *Store) RecordView(index int, now time.Time) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}

	s.history.record(now.Format(task.DateTimeLayout), fmt.Sprintf("task %d", index+1))

	return nil
}

// ViewHistory returns the recorded views in insertion order.
func (s *Store) ViewHistory() []View {
	out := make([]View, len(s.history.views))
	copy(out, s.history.views)

	return out
}

// SaveViewHistory writes the view history to its file.
func (s *Store) SaveViewHistory() error {
	entries := make([]entry, 0, len(s.history.views))

	for _, v := range s.history.views {
		value, err := json.Marshal(v.Description)
		if err != nil {
			return fmt.Errorf("%w: encoding view %s: %w", ErrPersistence, v.At, err)
		}

		entries = append(entries, entry{key: v.At, value: value})
	}

	data, err := encodeRecord(entries)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if err = writeFileAtomic(s.historyPath, data); err != nil {
		return fmt.Errorf("%w: error writing view history to %s: %w", ErrPersistence, s.historyPath, err)
	}

	log.Debug().Int("count", len(entries)).Msgf("saved view history to %s", s.historyPath)

	return nil
}

// LoadViewHistory replaces the view history with the contents of its file.
// A missing file yields an empty history.
func (s *Store) LoadViewHistory() error {
	data, err := os.ReadFile(s.historyPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Msgf("no view history at %s, starting empty", s.historyPath)

		s.history = newHistory()

		return nil
	}

	if err != nil {
		return fmt.Errorf("%w: error reading view history from %s: %w", ErrUnreadable, s.historyPath, err)
	}

	entries, err := decodeRecord(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedData, s.historyPath, err)
	}

	h := newHistory()

	for _, e := range entries {
		var description string
		if err = json.Unmarshal(e.value, &description); err != nil {
			return fmt.Errorf("%w: %s: %s: %w", ErrMalformedData, s.historyPath, e.key, err)
		}

		h.record(e.key, description)
	}

	s.history = h

	log.Debug().Int("count", len(h.views)).Msgf("loaded view history from %s", s.historyPath)

	return nil
}
