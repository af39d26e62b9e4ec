// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package events

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfwise/internal/models"
)

// Topics
const (
	TopicInteractionsRecorded = "interactions.recorded"
	TopicInteractionsFailed   = "interactions.failed"
)

// Marshal encodes an interaction as a message payload.
func Marshal(in *models.Interaction) ([]byte, error) {
	if in == nil || in.ID == "" || in.BookID == "" {
		return nil, fmt.Errorf("validate event: interaction id and book id are required")
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a message payload.
func Unmarshal(data []byte) (*models.Interaction, error) {
	var in models.Interaction
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	if in.ID == "" || in.BookID == "" || !in.Kind.Valid() {
		return nil, fmt.Errorf("unmarshal event: incomplete interaction")
	}
	return &in, nil
}
