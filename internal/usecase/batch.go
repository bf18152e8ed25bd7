package usecase

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"reviewsense/internal/adapter/fs"
	"reviewsense/internal/port"
)

var ErrEmptyText = errors.New("empty text")

// BatchUseCase analyzes every review file under a directory.
type BatchUseCase struct {
	walker  port.FileWalker
	analyze *AnalyzeUseCase
	workers int
}

// NewBatchUseCase creates a new batch use case. Workers below one means one.
func NewBatchUseCase(walker port.FileWalker, analyze *AnalyzeUseCase, workers int) *BatchUseCase {
	if workers < 1 {
		workers = 1
	}
	return &BatchUseCase{
		walker:  walker,
		analyze: analyze,
		workers: workers,
	}
}

// BatchItem is the outcome for one file. Exactly one of Prediction and Err
// is set.
type BatchItem struct {
	Path       string
	Prediction *Prediction
	Err        error
}

// BatchResult contains the results of a batch run, in file path order.
type BatchResult struct {
	FilesScored int
	FilesFailed int
	Items       []BatchItem
}

// ProgressFunc is called after each file with the number processed so far.
type ProgressFunc func(processed, total int, currentFile string)

// Run analyzes the files under root.
func (u *BatchUseCase) Run(root string, progress ProgressFunc) (*BatchResult, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	items := make([]BatchItem, len(files))
	jobs := make(chan int)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		processed int
	)

	for w := 0; w < u.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				items[i] = u.analyzeFile(files[i].Path)

				mu.Lock()
				processed++
				if progress != nil {
					progress(processed, len(files), files[i].Path)
				}
				mu.Unlock()
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	result := &BatchResult{Items: items}
	for _, item := range items {
		if item.Err != nil {
			result.FilesFailed++
		} else {
			result.FilesScored++
		}
	}
	return result, nil
}

// analyzeFile never panics; a panic inside analysis is reported as an error.
func (u *BatchUseCase) analyzeFile(path string) (item BatchItem) {
	item.Path = path

	defer func() {
		if r := recover(); r != nil {
			item.Prediction = nil
			item.Err = fmt.Errorf("analysis panicked: %v", r)
		}
	}()

	content, err := fs.ReadFile(path)
	if err != nil {
		item.Err = fmt.Errorf("failed to read file: %w", err)
		return item
	}

	text := strings.TrimSpace(content)
	if text == "" {
		item.Err = ErrEmptyText
		return item
	}

	result, err := u.analyze.Analyze(text)
	if err != nil {
		item.Err = err
		return item
	}

	p := NewPrediction(result)
	item.Prediction = &p
	return item
}
