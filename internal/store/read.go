package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Documents returns every stored document with its links, decoded
func (s *Store) Documents(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT title, metadata, entityId FROM DocObjs ORDER BY ID`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	type row struct {
		title, metadata string
		entityID        int64
	}
	var raw []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.title, &r.metadata, &r.entityID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		raw = append(raw, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(raw))
	for _, r := range raw {
		doc := Document{EntityID: r.entityID}
		if doc.Title, err = decode(r.title); err != nil {
			return nil, fmt.Errorf("failed to decode title: %w", err)
		}
		metadataJSON, err := decode(r.metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to decode metadata: %w", err)
		}
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("failed to parse metadata: %w", err)
		}
		if doc.Links, err = s.links(ctx, r.title); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// links returns the decoded link titles of an encoded document title
func (s *Store) links(ctx context.Context, encodedTitle string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT toTitle FROM LinkObjs WHERE fromTitle = ? ORDER BY ID`, encodedTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	var links []string
	for rows.Next() {
		var enc string
		if err := rows.Scan(&enc); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		link, err := decode(enc)
		if err != nil {
			return nil, fmt.Errorf("failed to decode link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
