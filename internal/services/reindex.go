package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/yungbote/intersection-backend/internal/logger"
	"github.com/yungbote/intersection-backend/internal/repos"
)

type AnchorIndexService interface {
	// ReindexAnchors regenerates anchor embeddings page by page, ordered by
	// anchor id ascending. A failed embedding call aborts the current page
	// and returns the count written so far; the job is safe to re-run.
	ReindexAnchors(ctx context.Context, userID *uuid.UUID, pageSize int) (int, error)
}

type anchorIndexService struct {
	log        *logger.Logger
	anchorRepo repos.SchoolAnchorRepo
	embedder   TextEmbedder
}

func NewAnchorIndexService(log *logger.Logger, anchorRepo repos.SchoolAnchorRepo, embedder TextEmbedder) AnchorIndexService {
	return &anchorIndexService{
		log:        log.With("service", "AnchorIndexService"),
		anchorRepo: anchorRepo,
		embedder:   embedder,
	}
}

func (as *anchorIndexService) ReindexAnchors(ctx context.Context, userID *uuid.UUID, pageSize int) (int, error) {
	if pageSize <= 0 {
		pageSize = 100
	}

	total := 0
	offset := 0
	for {
		page, err := as.anchorRepo.ListPage(ctx, nil, userID, offset, pageSize)
		if err != nil {
			return total, fmt.Errorf("list anchors at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			break
		}

		texts := make([]string, len(page))
		for i, anchor := range page {
			texts[i] = BuildAnchorText(anchor)
		}

		// Embed before the page commit: no open transaction ever spans the
		// provider round trip.
		embeddings, err := as.embedder.Embed(ctx, texts)
		if err != nil {
			return total, fmt.Errorf("embed anchors at offset %d: %w", offset, err)
		}
		if len(embeddings) != len(page) {
			return total, fmt.Errorf("embedding count mismatch at offset %d: got %d, want %d", offset, len(embeddings), len(page))
		}

		updates := make([]repos.AnchorEmbeddingUpdate, len(page))
		for i, anchor := range page {
			updates[i] = repos.AnchorEmbeddingUpdate{
				AnchorID:  anchor.ID,
				Embedding: pgvector.NewVector(embeddings[i]),
			}
		}
		if err := as.anchorRepo.UpdateEmbeddingsPage(ctx, updates); err != nil {
			return total, fmt.Errorf("write embeddings at offset %d: %w", offset, err)
		}

		total += len(page)
		offset += pageSize
		as.log.Debug("Reindexed anchor page", "offset", offset, "page_size", len(page), "total", total)
	}

	as.log.Info("Anchor reindex finished", "total", total)
	return total, nil
}
