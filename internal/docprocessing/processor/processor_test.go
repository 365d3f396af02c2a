package processor_test

import (
	"context"
	"testing"

	"github.com/medflow/idscan-service/internal/docprocessing/domain"
	"github.com/medflow/idscan-service/internal/docprocessing/processor"
)

func TestRegistry_FindProcessors(t *testing.T) {
	aamva := processor.NewAAMVAProcessor()
	manual := processor.NewManualReviewProcessor()
	r := processor.NewRegistry(aamva, manual)

	got := r.FindProcessors(domain.DocumentTypeDriversLicense)
	if len(got) != 2 || got[0].Name() != "aamva" || got[1].Name() != "manual_review" {
		t.Fatalf("FindProcessors = %v, want [aamva manual_review]", names(got))
	}

	if p := r.FindProcessor(domain.DocumentTypeIDCard); p == nil || p.Name() != "aamva" {
		t.Errorf("FindProcessor(id_card) = %v, want aamva", p)
	}

	if got := r.FindProcessors(domain.DocumentType("passport")); len(got) != 0 {
		t.Errorf("FindProcessors(passport) = %v, want none", names(got))
	}
	if p := r.FindProcessor(domain.DocumentType("passport")); p != nil {
		t.Errorf("FindProcessor(passport) = %v, want nil", p.Name())
	}
}

func TestManualReviewProcessor(t *testing.T) {
	p := processor.NewManualReviewProcessor()

	result, err := p.Process(context.Background(), []byte("anything"), domain.DocumentTypeIDCard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Fields) != 0 {
		t.Errorf("expected no fields, got %v", result.Fields)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != processor.WarningManualReview {
		t.Errorf("Warnings = %v", result.Warnings)
	}
}

func names(ps []processor.Processor) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name()
	}
	return out
}
