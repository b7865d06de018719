package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"reelkit/internal/timeline"
)

// Create initializes the project row with the given display name and
// default zoom/fps. No-op if the project already exists.
func (s *Store) Create(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project (id, name, zoom, fps)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, name, timeline.DefaultZoom, timeline.DefaultFPS)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// Name returns the project's display name.
func (s *Store) Name(ctx context.Context) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM project WHERE id = 1`).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read project name: %w", err)
	}
	return name, nil
}

// Save replaces the stored snapshot in one transaction: project row
// updated, scene rows rewritten in list order, audio row replaced or
// cleared. A crash mid-save leaves the previous snapshot intact.
func (s *Store) Save(ctx context.Context, snap timeline.Snapshot) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE project
			SET zoom = ?, fps = ?, updated_at = datetime('now')
			WHERE id = 1
		`, snap.Zoom, snap.FPS)
		if err != nil {
			return fmt.Errorf("update project: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM scenes`); err != nil {
			return fmt.Errorf("clear scenes: %w", err)
		}
		for i, sc := range snap.Scenes {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO scenes (position, id, duration, name, thumb, template_path)
				VALUES (?, ?, ?, ?, ?, ?)
			`, i, sc.ID, sc.Duration, sc.Name, sc.Thumb, sc.TemplatePath)
			if err != nil {
				return fmt.Errorf("insert scene %s: %w", sc.ID, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM audio`); err != nil {
			return fmt.Errorf("clear audio: %w", err)
		}
		if a := snap.Audio; a != nil {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO audio (slot, id, start, duration, src, muted)
				VALUES (1, ?, ?, ?, ?, ?)
			`, a.ID, a.Start, a.Duration, a.Src, a.Muted)
			if err != nil {
				return fmt.Errorf("insert audio: %w", err)
			}
		}

		return nil
	})
}

// Load reads the stored snapshot. Scene starts are not stored; callers
// install the snapshot with Timeline.Restore, which re-normalizes and
// thereby reestablishes the contiguity invariant.
//
// Returns ErrNotFound if Create has never run against this database.
func (s *Store) Load(ctx context.Context) (timeline.Snapshot, error) {
	var snap timeline.Snapshot

	err := s.db.QueryRowContext(ctx, `
		SELECT zoom, fps FROM project WHERE id = 1
	`).Scan(&snap.Zoom, &snap.FPS)
	if errors.Is(err, sql.ErrNoRows) {
		return timeline.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return timeline.Snapshot{}, fmt.Errorf("read project: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, duration, name, thumb, template_path
		FROM scenes
		ORDER BY position
	`)
	if err != nil {
		return timeline.Snapshot{}, fmt.Errorf("read scenes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc timeline.SceneClip
		if err := rows.Scan(&sc.ID, &sc.Duration, &sc.Name, &sc.Thumb, &sc.TemplatePath); err != nil {
			return timeline.Snapshot{}, fmt.Errorf("scan scene: %w", err)
		}
		snap.Scenes = append(snap.Scenes, sc)
	}
	if err := rows.Err(); err != nil {
		return timeline.Snapshot{}, fmt.Errorf("iterate scenes: %w", err)
	}

	var a timeline.AudioClip
	err = s.db.QueryRowContext(ctx, `
		SELECT id, start, duration, src, muted FROM audio WHERE slot = 1
	`).Scan(&a.ID, &a.Start, &a.Duration, &a.Src, &a.Muted)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Audio track is empty.
	case err != nil:
		return timeline.Snapshot{}, fmt.Errorf("read audio: %w", err)
	default:
		snap.Audio = &a
	}

	return snap, nil
}
