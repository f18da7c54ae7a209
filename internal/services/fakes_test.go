package services

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
)

// memRepo is an in-memory users.Repository with injectable failures.
type memRepo struct {
	mu    sync.Mutex
	users map[string][]byte

	existsErr error
	insertErr error
	lookupErr error

	// existsLies makes Exists report false for everyone, to exercise the
	// insert-time duplicate path.
	existsLies bool

	inserts int
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string][]byte{}}
}

func (m *memRepo) EnsureSchema(context.Context) error { return nil }

func (m *memRepo) Exists(_ context.Context, userName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	if m.existsLies {
		return false, nil
	}
	_, ok := m.users[userName]
	return ok, nil
}

func (m *memRepo) Insert(_ context.Context, userName string, passwordHash []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	if _, ok := m.users[userName]; ok {
		return common.ErrDuplicateUser
	}
	m.users[userName] = bytes.Clone(passwordHash)
	m.inserts++
	return nil
}

func (m *memRepo) Lookup(_ context.Context, userName string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	h, ok := m.users[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return bytes.Clone(h), nil
}

// countingApprover records how often it was asked.
type countingApprover struct {
	mu    sync.Mutex
	allow bool
	calls int
	asked []string
}

func (c *countingApprover) Approve(_ context.Context, username string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.asked = append(c.asked, username)
	return c.allow
}

// syncBuffer lets several goroutines log into one buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func newBufferLogger() (logging.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return logging.NewSlogLogger(slog.New(h)), buf
}
