package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DraftStore persists one DraftReview per active review session, keyed
// by (owner, repo, pr number). Treating the draft as an explicit external
// resource rather than an in-memory singleton keeps concurrent sessions
// on different PRs independent.
type DraftStore interface {
	Load(owner, repo string, number int) (*DraftReview, error)
	Save(draft *DraftReview) error
	Delete(owner, repo string, number int) error
	Path(owner, repo string, number int) string
}

// fileDraftStore keeps drafts as JSON documents in a single directory.
type fileDraftStore struct {
	dir string
}

// NewDraftStore returns the file-backed store rooted at the configured
// draft directory.
func NewDraftStore() DraftStore {
	return &fileDraftStore{dir: viper.GetString("draft_dir")}
}

// NewDraftStoreAt returns a store rooted at an explicit directory.
func NewDraftStoreAt(dir string) DraftStore {
	return &fileDraftStore{dir: dir}
}

func (s *fileDraftStore) Path(owner, repo string, number int) string {
	return filepath.Join(s.dir, fmt.Sprintf("ghpr-review-%s-%s-%d.json", owner, repo, number))
}

func (s *fileDraftStore) Load(owner, repo string, number int) (*DraftReview, error) {
	path := s.Path(owner, repo, number)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no draft review for %s/%s#%d; run 'ghpr init-review' first", owner, repo, number)
		}
		return nil, fmt.Errorf("reading draft %s: %w", path, err)
	}

	var draft DraftReview
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("parsing draft %s: %w", path, err)
	}
	return &draft, nil
}

func (s *fileDraftStore) Save(draft *DraftReview) error {
	path := s.Path(draft.Owner, draft.Repo, draft.Number)
	data, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}

	// Write to a temp file and rename so an interrupted write never
	// leaves a truncated draft at path.
	tmp, err := os.CreateTemp(s.dir, ".ghpr-draft-*")
	if err != nil {
		return fmt.Errorf("writing draft %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing draft %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing draft %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing draft %s: %w", path, err)
	}
	return nil
}

func (s *fileDraftStore) Delete(owner, repo string, number int) error {
	path := s.Path(owner, repo, number)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing draft %s: %w", path, err)
	}
	return nil
}
