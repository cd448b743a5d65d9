package mocks

import (
	"fmt"

	"github.com/bancoimob/gamebank/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing. Queued
// results are returned in order; once a queue is exhausted it falls
// back to deterministic sequential values so tests that do not care
// about identifiers still get unique ones.
type MockRandom struct {
	// StringResults is a queue of results to return from String
	StringResults []string
	stringIndex   int

	// UUIDResults is a queue of results to return from UUID
	UUIDResults []string
	uuidIndex   int

	fallbackCount int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// String returns the next queued result, or a deterministic fallback
func (r *MockRandom) String(length int, alphabet string) string {
	if r.stringIndex < len(r.StringResults) {
		result := r.StringResults[r.stringIndex]
		r.stringIndex++
		return result
	}
	r.fallbackCount++
	return fmt.Sprintf("CODE%d", r.fallbackCount)
}

// UUID returns the next queued result, or a deterministic fallback
func (r *MockRandom) UUID() string {
	if r.uuidIndex < len(r.UUIDResults) {
		result := r.UUIDResults[r.uuidIndex]
		r.uuidIndex++
		return result
	}
	r.fallbackCount++
	return fmt.Sprintf("mock-uuid-%d", r.fallbackCount)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.StringResults = append(r.StringResults, values...)
}

// QueueUUID adds values to the UUID result queue
func (r *MockRandom) QueueUUID(values ...string) {
	r.UUIDResults = append(r.UUIDResults, values...)
}
