// Package export writes aggregated items to a JSON file.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"timeTracker/internal/handlers/dto"
	"timeTracker/internal/models/item"

	"github.com/natefinch/atomic"
)

type Document struct {
	OwnerID    int64              `json:"owner_id"`
	ExportedAt time.Time          `json:"exported_at"`
	Items      []dto.ViewResponse `json:"items"`
}

// WriteFile replaces path atomically, so readers never see a partial export.
func WriteFile(path string, ownerID int64, views []item.View, now time.Time) error {
	doc := Document{
		OwnerID:    ownerID,
		ExportedAt: now.UTC(),
		Items:      dto.FromViewList(views, now),
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("кодирование экспорта: %w", err)
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("запись %s: %w", path, err)
	}
	// atomic.WriteFile не выставляет права новому файлу
	if err := os.Chmod(path, 0o644); err != nil {
		return fmt.Errorf("права %s: %w", path, err)
	}
	return nil
}
