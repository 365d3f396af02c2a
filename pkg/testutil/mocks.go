package testutil

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/medflow/idscan-service/pkg/database"
	"github.com/medflow/idscan-service/pkg/logger"
	"github.com/medflow/idscan-service/pkg/messaging"
)

// MockDB wraps sqlmock for easier testing
type MockDB struct {
	DB   *database.DB
	Mock sqlmock.Sqlmock
}

// NewMockDB creates a mock database for repository unit tests. The connection is
// closed when the test ends.
//
// Usage:
//
//	mockDB := testutil.NewMockDB(t)
//	mockDB.ExpectTenantExec("tenant_test", "INSERT INTO document_processing_audit", sqlmock.NewResult(1, 1))
//	repo := repository.NewAuditRepository(mockDB.DB)
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &MockDB{
		DB:   database.Wrap(sqlx.NewDb(db, "postgres"), logger.Nop()),
		Mock: mock,
	}
}

// ExpectExec sets up an expected exec
func (m *MockDB) ExpectExec(query string) *sqlmock.ExpectedExec {
	return m.Mock.ExpectExec(regexp.QuoteMeta(query))
}

// ExpectTenantExec expects the transaction + SET LOCAL search_path pattern of
// database.WithTenantSchema around a single exec. The returned expectation can be
// refined with WithArgs or WillReturnError.
func (m *MockDB) ExpectTenantExec(schema, query string, result driver.Result) *sqlmock.ExpectedExec {
	m.Mock.ExpectBegin()
	m.Mock.ExpectExec(regexp.QuoteMeta(`SET LOCAL search_path TO "` + schema + `", public`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	exec := m.Mock.ExpectExec(regexp.QuoteMeta(query)).WillReturnResult(result)
	m.Mock.ExpectCommit()
	return exec
}

// ExpectationsWereMet verifies all expectations were met
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	if err := m.Mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// AnyTime is a matcher for any time.Time value
type AnyTime struct{}

// Match satisfies the sqlmock.Argument interface
func (a AnyTime) Match(v driver.Value) bool {
	_, ok := v.(time.Time)
	return ok
}

// AnyUUID is a matcher for any UUID string
type AnyUUID struct{}

// Match satisfies the sqlmock.Argument interface
func (a AnyUUID) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// MockChannel records every message published through it. It satisfies
// messaging.Channel and is safe for concurrent use.
type MockChannel struct {
	mu       sync.Mutex
	messages []amqp.Publishing
	keys     []string
	Err      error
}

// NewMockPublisher returns a publisher backed by a MockChannel.
func NewMockPublisher(exchange, source string) (*messaging.Publisher, *MockChannel) {
	ch := &MockChannel{}
	return messaging.NewChannelPublisher(ch, exchange, source, logger.Nop()), ch
}

// PublishWithContext records msg, or returns Err when set.
func (c *MockChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.messages = append(c.messages, msg)
	c.keys = append(c.keys, key)
	return nil
}

// Len returns the number of recorded messages.
func (c *MockChannel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Events decodes the recorded messages into event envelopes.
func (c *MockChannel) Events(t *testing.T) []messaging.Event {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	events := make([]messaging.Event, len(c.messages))
	for i, msg := range c.messages {
		if err := json.Unmarshal(msg.Body, &events[i]); err != nil {
			t.Fatalf("failed to decode message %d: %v", i, err)
		}
	}
	return events
}

// AssertEventPublished checks if an event of the given type was published
func (c *MockChannel) AssertEventPublished(t *testing.T, eventType string) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.keys {
		if k == eventType {
			return
		}
	}
	t.Errorf("expected event %q to be published, got %v", eventType, c.keys)
}

// AssertNoEventsPublished checks that no events were published
func (c *MockChannel) AssertNoEventsPublished(t *testing.T) {
	t.Helper()
	if n := c.Len(); n > 0 {
		t.Errorf("expected no events, but got %d", n)
	}
}
