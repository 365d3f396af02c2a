package processor

import (
	"context"

	"github.com/medflow/idscan-service/internal/docprocessing/domain"
)

// WarningManualReview is the only output of ManualReviewProcessor.
const WarningManualReview = "Automatic extraction failed. The document requires manual review."

// ManualReviewProcessor is the last processor in the chain. It extracts nothing and
// flags the document for a person to check, so a job never fails only because an
// earlier processor errored.
type ManualReviewProcessor struct{}

func NewManualReviewProcessor() *ManualReviewProcessor {
	return &ManualReviewProcessor{}
}

func (p *ManualReviewProcessor) Name() string {
	return "manual_review"
}

func (p *ManualReviewProcessor) CanProcess(docType domain.DocumentType) bool {
	return docType.Valid()
}

func (p *ManualReviewProcessor) Process(ctx context.Context, payload []byte, docType domain.DocumentType) (*domain.ExtractionResult, error) {
	return &domain.ExtractionResult{
		DocumentType: docType,
		Processor:    p.Name(),
		Warnings:     []string{WarningManualReview},
	}, nil
}

