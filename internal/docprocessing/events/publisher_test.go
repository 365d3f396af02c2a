package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medflow/idscan-service/internal/docprocessing/domain"
	"github.com/medflow/idscan-service/internal/docprocessing/events"
	"github.com/medflow/idscan-service/pkg/httputil"
	"github.com/medflow/idscan-service/pkg/messaging"
	"github.com/medflow/idscan-service/pkg/testutil"
)

func TestPublisher_ExtractionCompleted(t *testing.T) {
	pub, ch := testutil.NewMockPublisher(messaging.ExchangeDocumentEvents, "idscan-service")
	p := events.NewPublisher(pub)

	ctx := httputil.WithUserContext(testutil.TestTenantContext(), testutil.TestUserID, "staff")
	result := &domain.ExtractionResult{
		DocumentType:     domain.DocumentTypeDriversLicense,
		Processor:        "aamva",
		Fields:           []domain.ExtractionField{{Key: "last_name", Value: "DOE"}, {Key: "license_number", Value: "S1234567"}},
		ProcessingTimeMs: 4,
	}

	require.NoError(t, p.ExtractionCompleted(ctx, "job-1", result, "f00d"))

	ch.AssertEventPublished(t, messaging.EventExtractionCompleted)
	evts := ch.Events(t)
	require.Len(t, evts, 1)

	var data messaging.ExtractionEvent
	require.NoError(t, evts[0].UnmarshalData(&data))
	assert.Equal(t, "job-1", data.JobID)
	assert.Equal(t, "drivers_license", data.DocumentType)
	assert.Equal(t, []string{"last_name", "license_number"}, data.FieldKeys)
	assert.Equal(t, "f00d", data.Fingerprint)
	assert.Equal(t, testutil.TestTenantID, data.TenantID)
	assert.Equal(t, testutil.TestUserID, data.UserID)
	assert.NotContains(t, string(evts[0].Data), "DOE", "field values must never be published")
	assert.NotContains(t, string(evts[0].Data), "S1234567")
}

func TestPublisher_ExtractionFailed(t *testing.T) {
	pub, ch := testutil.NewMockPublisher(messaging.ExchangeDocumentEvents, "idscan-service")
	p := events.NewPublisher(pub)

	require.NoError(t, p.ExtractionFailed(context.Background(), "job-2", domain.DocumentTypeIDCard, "boom"))

	ch.AssertEventPublished(t, messaging.EventExtractionFailed)
	var data messaging.ExtractionEvent
	require.NoError(t, ch.Events(t)[0].UnmarshalData(&data))
	assert.Equal(t, "boom", data.Reason)
	assert.Empty(t, data.TenantID)
}

func TestPublisher_BrokerError(t *testing.T) {
	pub, ch := testutil.NewMockPublisher(messaging.ExchangeDocumentEvents, "idscan-service")
	ch.Err = errors.New("broker down")
	p := events.NewPublisher(pub)

	err := p.ExtractionFailed(context.Background(), "job-3", domain.DocumentTypeIDCard, "x")
	assert.Error(t, err)
	ch.AssertNoEventsPublished(t)
}
