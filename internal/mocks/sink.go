package mocks

import (
	"io/fs"

	"github.com/stretchr/testify/mock"
)

// MockSink implements export.Sink for testing across packages
type MockSink struct {
	mock.Mock
}

func (m *MockSink) MkdirAll(path string, perm fs.FileMode) error {
	args := m.Called(path, perm)
	return args.Error(0)
}

func (m *MockSink) WriteFile(path string, data []byte, perm fs.FileMode) error {
	args := m.Called(path, data, perm)

	// Handle function return types (for tests that inspect the call)
	if fn, ok := args.Get(0).(func(string, []byte, fs.FileMode) error); ok {
		return fn(path, data, perm)
	}
	return args.Error(0)
}
