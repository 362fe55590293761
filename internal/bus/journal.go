package bus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/julianstephens/habitheat/internal/logger"
)

// journalRecord is one line of the shared event journal. The sender id lets
// each process skip its own broadcasts.
type journalRecord struct {
	Name   Topic  `json:"name"`
	Detail string `json:"detail"`
	Sender string `json:"sender"`
}

// JournalTransport broadcasts events by appending JSON lines to a journal
// file next to the database and watching it with fsnotify. Every open
// process of the same store tails the journal, so all views stay consistent.
// Best-effort only: if the watcher cannot be established the caller falls
// back to in-process delivery.
type JournalTransport struct {
	path    string
	sender  string
	watcher *fsnotify.Watcher
	events  chan Event

	mu     sync.Mutex
	offset int64
}

// NewJournalTransport opens (creating if needed) the journal at path and
// starts tailing it from its current end.
func NewJournalTransport(path string) (*JournalTransport, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open event journal: %w", err)
	}
	offset, err := f.Seek(0, io.SeekEnd)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to seek event journal: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create journal watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch event journal: %w", err)
	}

	t := &JournalTransport{
		path:    path,
		sender:  uuid.New().String(),
		watcher: watcher,
		events:  make(chan Event, 16),
		offset:  offset,
	}
	go t.tail()
	return t, nil
}

// Broadcast appends the event as one JSON line. The write is a single
// O_APPEND syscall so concurrent writers do not interleave.
func (t *JournalTransport) Broadcast(evt Event) error {
	rec := journalRecord{Name: evt.Name, Detail: evt.Detail, Sender: t.sender}
	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(line)
	return err
}

// tail reads newly appended lines whenever the journal changes and forwards
// records from other senders.
//
// TODO: truncate the journal once it grows past a few megabytes; offsets of
// live tails need to be re-synced when that happens.
func (t *JournalTransport) tail() {
	defer close(t.events)

	for {
		select {
		case evt, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if !evt.Has(fsnotify.Write) {
				continue
			}
			t.drain()
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("event journal watch error", "error", err)
		}
	}
}

func (t *JournalTransport) drain() {
	t.mu.Lock()
	offset := t.offset
	t.mu.Unlock()

	f, err := os.Open(t.path)
	if err != nil {
		logger.Warn("failed to open event journal", "error", err)
		return
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		logger.Warn("failed to seek event journal", "error", err)
		return
	}

	reader := bufio.NewReader(f)
	read := int64(0)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			// A partial trailing line belongs to an in-flight writer; leave
			// it for the next watch event.
			break
		}
		read += int64(len(line))

		var rec journalRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			logger.Warn("skipping malformed journal record", "error", err)
			continue
		}
		// Own broadcasts come back through the watcher too; the sender id
		// filters them out.
		if rec.Sender == t.sender {
			continue
		}
		t.events <- Event{Name: rec.Name, Detail: rec.Detail}
	}

	t.mu.Lock()
	t.offset = offset + read
	t.mu.Unlock()
}

func (t *JournalTransport) Events() <-chan Event { return t.events }

func (t *JournalTransport) Close() error {
	return t.watcher.Close()
}
