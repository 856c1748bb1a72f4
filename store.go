package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// KeyValueStore is the durable string storage behind the session.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// FileStore keeps all entries in one YAML document and rewrites it on every change
type FileStore struct {
	mu       sync.RWMutex
	entries  map[string]string
	filePath string
}

// OpenFileStore loads the document at path, starting empty when it does not exist yet.
func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		entries:  make(map[string]string),
		filePath: path,
	}
	if err := fs.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load session file: %w", err)
	}
	return fs, nil
}

func (fs *FileStore) Get(key string) (string, bool, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	v, ok := fs.entries[key]
	return v, ok, nil
}

func (fs *FileStore) Set(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.entries[key] = value
	return fs.save()
}

func (fs *FileStore) Delete(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.entries[key]; !ok {
		return nil
	}
	delete(fs.entries, key)
	return fs.save()
}

func (fs *FileStore) Close() error {
	return nil
}

func (fs *FileStore) load() error {
	data, err := os.ReadFile(fs.filePath)
	if err != nil {
		return err
	}
	entries := make(map[string]string)
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return err
	}
	if entries != nil {
		fs.entries = entries
	}
	return nil
}

// save must be called with fs.mu held
func (fs *FileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(fs.filePath), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(fs.entries)
	if err != nil {
		return err
	}
	// the token is a credential
	return os.WriteFile(fs.filePath, data, 0600)
}
