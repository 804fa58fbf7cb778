package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// QueuedAction is an action recorded while the API was unreachable. The
// idempotency key makes replay safe even if a previous attempt half-landed.
type QueuedAction struct {
	Name           string         `json:"action"`
	Payload        map[string]any `json:"payload,omitempty"`
	IdempotencyKey string         `json:"idempotency_key"`
}

func queuePath() (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "queue.json"), nil
}

func LoadQueue() ([]QueuedAction, error) {
	path, err := queuePath()
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []QueuedAction{}, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return []QueuedAction{}, nil
	}
	var out []QueuedAction
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func SaveQueue(actions []QueuedAction) error {
	path, err := queuePath()
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(actions, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func PushQueue(a QueuedAction) error {
	actions, err := LoadQueue()
	if err != nil {
		return err
	}
	actions = append(actions, a)
	return SaveQueue(actions)
}
