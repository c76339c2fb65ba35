package cache

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-flight-monitor/internal/data/aggregator"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

type CacheMissReason int

const (
	MissReasonNone CacheMissReason = iota
	MissReasonError
	MissReasonInode
	MissReasonSize
	MissReasonModTime
	MissReasonFingerprint
	MissReasonNoFingerprint
	MissReasonNotFound
)

func (r CacheMissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonError:
		return "Cache read error"
	case MissReasonInode:
		return "File inode changed"
	case MissReasonSize:
		return "File size changed"
	case MissReasonModTime:
		return "Modification time changed"
	case MissReasonFingerprint:
		return "File fingerprint changed"
	case MissReasonNoFingerprint:
		return "Cached entry has no fingerprint"
	case MissReasonNotFound:
		return "Cache not found"
	default:
		return "Unknown reason"
	}
}

type CacheResult struct {
	Data       *aggregator.FlightSummary
	Found      bool
	MissReason CacheMissReason
}

type BatchValidateResult struct {
	Valid      bool
	MissReason CacheMissReason
}

// Cache stores flight summaries keyed by recording path.
type Cache interface {
	Get(recordingPath string) CacheResult
	Set(summary *aggregator.FlightSummary) error
	Clear() error
	Preload() error
	BatchValidate(recordingPaths []string) map[string]BatchValidateResult
	GetCacheStats() (memoryCount, fileCount int)
}

// FileCache keeps one JSON file per recording, mirrored in memory.
type FileCache struct {
	baseDir     string
	mu          sync.RWMutex
	memoryCache map[string]*aggregator.FlightSummary
}

func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &FileCache{
		baseDir:     baseDir,
		memoryCache: make(map[string]*aggregator.FlightSummary),
	}, nil
}

// cacheKey names the cache entry of a recording. The path hash keeps
// same-named recordings in different directories apart.
func cacheKey(recordingPath string) string {
	abs, err := filepath.Abs(recordingPath)
	if err != nil {
		abs = recordingPath
	}
	h := fnv.New32a()
	h.Write([]byte(abs))
	return fmt.Sprintf("%s-%08x", aggregator.ExtractFlightID(recordingPath), h.Sum32())
}

func (c *FileCache) entryPath(key string) string {
	return filepath.Join(c.baseDir, key+".json")
}

func (c *FileCache) Get(recordingPath string) CacheResult {
	key := cacheKey(recordingPath)

	c.mu.RLock()
	memData, exists := c.memoryCache[key]
	c.mu.RUnlock()

	if exists {
		reason := c.validate(memData)
		if reason == MissReasonNone {
			return CacheResult{Data: memData, Found: true}
		}
		c.mu.Lock()
		delete(c.memoryCache, key)
		c.mu.Unlock()
		return CacheResult{MissReason: reason}
	}

	data, reason := c.load(key)
	if reason != MissReasonNone {
		return CacheResult{MissReason: reason}
	}

	c.mu.Lock()
	c.memoryCache[key] = data
	c.mu.Unlock()
	return CacheResult{Data: data, Found: true}
}

// load reads and validates one cache file.
func (c *FileCache) load(key string) (*aggregator.FlightSummary, CacheMissReason) {
	raw, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		return nil, MissReasonNotFound
	}

	var data aggregator.FlightSummary
	if err := sonic.Unmarshal(raw, &data); err != nil {
		util.LogDebugf("Cache entry %s is unreadable: %v", key, err)
		return nil, MissReasonError
	}
	if reason := c.validate(&data); reason != MissReasonNone {
		return nil, reason
	}
	return &data, MissReasonNone
}

// validate checks a cached summary against the recording on disk.
func (c *FileCache) validate(data *aggregator.FlightSummary) CacheMissReason {
	currentInfo, err := util.GetFileInfo(data.FilePath)
	if err != nil {
		util.LogDebugf("Cache validation failed for %s: unable to get file info: %v", data.FilePath, err)
		return MissReasonError
	}

	if currentInfo.Inode != data.Inode {
		util.LogDebugf("Cache invalidated for %s: inode changed (cached: %d, current: %d)",
			data.FilePath, data.Inode, currentInfo.Inode)
		return MissReasonInode
	}
	if currentInfo.Size != data.FileSize {
		util.LogDebugf("Cache invalidated for %s: size changed (cached: %d, current: %d)",
			data.FilePath, data.FileSize, currentInfo.Size)
		return MissReasonSize
	}
	if currentInfo.ModTime != data.LastModified {
		util.LogDebugf("Cache invalidated for %s: modtime changed", data.FilePath)
		return MissReasonModTime
	}

	if data.ContentFingerprint == "" {
		return MissReasonNoFingerprint
	}
	fingerprint, err := util.CalculateFileFingerprint(data.FilePath)
	if err != nil {
		util.LogDebugf("Cache invalidated for %s: unable to calculate fingerprint: %v", data.FilePath, err)
		return MissReasonNoFingerprint
	}
	if fingerprint != data.ContentFingerprint {
		util.LogDebugf("Cache invalidated for %s: fingerprint mismatch (cached: %s, current: %s)",
			data.FilePath, data.ContentFingerprint, fingerprint)
		return MissReasonFingerprint
	}
	return MissReasonNone
}

// Set stamps summary with the current identity of its recording and stores it.
func (c *FileCache) Set(summary *aggregator.FlightSummary) error {
	fileInfo, err := util.GetFileInfo(summary.FilePath)
	if err != nil {
		return err
	}
	summary.LastModified = fileInfo.ModTime
	summary.FileSize = fileInfo.Size
	summary.Inode = fileInfo.Inode

	fingerprint, err := util.CalculateFileFingerprint(summary.FilePath)
	if err != nil {
		return err
	}
	summary.ContentFingerprint = fingerprint

	if summary.FlightID == "" {
		summary.FlightID = aggregator.ExtractFlightID(summary.FilePath)
	}

	data, err := sonic.ConfigStd.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}

	key := cacheKey(summary.FilePath)
	c.mu.Lock()
	defer c.mu.Unlock()

	// Write through a temporary file so readers never see a partial entry.
	tmp := c.entryPath(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, c.entryPath(key)); err != nil {
		return err
	}

	c.memoryCache[key] = summary
	return nil
}

func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memoryCache = make(map[string]*aggregator.FlightSummary)

	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(c.baseDir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

type preloadResult struct {
	key  string
	data *aggregator.FlightSummary
	err  error
}

// Preload loads every valid cache file into memory using a worker pool.
func (c *FileCache) Preload() error {
	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return fmt.Errorf("failed to scan cache directory: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			keys = append(keys, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	if len(keys) == 0 {
		util.LogDebug("Cache directory is empty, skipping preload")
		return nil
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > len(keys) {
		numWorkers = len(keys)
	}
	util.LogDebugf("Preloading %d cache files with %d workers", len(keys), numWorkers)

	keysChan := make(chan string, len(keys))
	resultsChan := make(chan preloadResult, len(keys))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range keysChan {
				data, reason := c.load(key)
				result := preloadResult{key: key, data: data}
				if reason == MissReasonError {
					result.err = fmt.Errorf("entry unreadable or recording missing")
				}
				resultsChan <- result
			}
		}()
	}

	for _, key := range keys {
		keysChan <- key
	}
	close(keysChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	loaded, invalid, failed := 0, 0, 0
	for result := range resultsChan {
		switch {
		case result.err != nil:
			failed++
			util.LogWarnf("Failed to preload cache file %s: %v", result.key, result.err)
		case result.data != nil:
			c.mu.Lock()
			c.memoryCache[result.key] = result.data
			c.mu.Unlock()
			loaded++
		default:
			invalid++
		}
	}

	util.LogInfof("Cache preload complete: %d loaded, %d invalid, %d errors (total %d)",
		loaded, invalid, failed, len(keys))
	return nil
}

// GetCacheStats returns the number of entries in memory and on disk.
func (c *FileCache) GetCacheStats() (memoryCount, fileCount int) {
	c.mu.RLock()
	memoryCount = len(c.memoryCache)
	c.mu.RUnlock()

	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return memoryCount, 0
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			fileCount++
		}
	}
	return memoryCount, fileCount
}

// BatchValidate reports, per recording path, whether a valid entry exists.
func (c *FileCache) BatchValidate(recordingPaths []string) map[string]BatchValidateResult {
	result := make(map[string]BatchValidateResult, len(recordingPaths))

	validCount := 0
	for _, path := range recordingPaths {
		r := c.Get(path)
		result[path] = BatchValidateResult{Valid: r.Found, MissReason: r.MissReason}
		if r.Found {
			validCount++
		}
	}

	util.LogDebugf("Batch validation complete: %d files, %d valid", len(recordingPaths), validCount)
	return result
}
