// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ifcp6/msp2ifc/internal/domain"
)

// ConvertFileInput contains the input for the ConvertFile use case.
// Fields are ordered to minimize memory padding.
type ConvertFileInput struct {
	OnWatching func(*ConvertFileOutput) // Called with the first run's output when watching starts
	OnRerun    func(*ConvertFileOutput) // Called after each successful run triggered by a change (watch mode)
	InputPath  string                   // Schedule document to convert
	OutputPath string                   // Model file to write (empty = input path with .ifc extension)
	DryRun     bool                     // If true, emit into memory without writing the file
	Watch      bool                     // If true, convert again on each change until ctx is done
}

// ConvertFileOutput contains the result of one conversion.
// Fields are ordered to minimize memory padding.
type ConvertFileOutput struct {
	Stats        domain.ModelStats     // Emitted entity counts by type
	Import       *ImportScheduleOutput // Import summary
	InputPath    string
	OutputPath   string
	ScheduleName string
	DryRun       bool
}

// ConvertFile converts a schedule document into a model file.
type ConvertFile struct {
	reader       domain.ScheduleReader
	models       domain.ModelFactory
	writer       domain.ModelWriter
	watcher      domain.FileWatcher
	configLoader domain.ConfigLoader
	clock        domain.Clock
	logger       domain.Logger
}

// NewConvertFile creates a new ConvertFile use case.
func NewConvertFile(
	reader domain.ScheduleReader,
	models domain.ModelFactory,
	writer domain.ModelWriter,
	watcher domain.FileWatcher,
	configLoader domain.ConfigLoader,
	clock domain.Clock,
	logger domain.Logger,
) *ConvertFile {
	return &ConvertFile{
		reader:       reader,
		models:       models,
		writer:       writer,
		watcher:      watcher,
		configLoader: configLoader,
		clock:        clock,
		logger:       logger,
	}
}

// Execute converts the input once and, in watch mode, again after every change.
// In watch mode it returns the first run's output when ctx is done.
func (uc *ConvertFile) Execute(ctx context.Context, in ConvertFileInput) (*ConvertFileOutput, error) {
	if in.InputPath == "" {
		return nil, domain.ErrInputRequired
	}
	if in.OutputPath == "" {
		in.OutputPath = domain.DefaultOutputPath(in.InputPath)
	}

	cfg, err := uc.configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	out, err := uc.convert(ctx, cfg, in)
	if err != nil {
		return nil, err
	}
	if !in.Watch {
		return out, nil
	}

	if in.OnWatching != nil {
		in.OnWatching(out)
	}
	uc.logger.Info("watch", fmt.Sprintf("watching %s", in.InputPath))
	err = uc.watcher.Watch(ctx, in.InputPath, func() {
		rerun, err := uc.convert(ctx, cfg, in)
		if err != nil {
			// Failed reruns are logged; watching continues.
			uc.logger.Error("watch", err.Error())
			return
		}
		if in.OnRerun != nil {
			in.OnRerun(rerun)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return out, fmt.Errorf("watch %s: %w", in.InputPath, err)
	}
	return out, nil
}

// convert runs one complete read-emit-write cycle into a fresh model.
func (uc *ConvertFile) convert(ctx context.Context, cfg *domain.Config, in ConvertFileInput) (*ConvertFileOutput, error) {
	schedule, err := uc.reader.ReadFile(in.InputPath)
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}
	uc.logger.Debug("convert", fmt.Sprintf("parsed %q: %d tasks, %d calendars",
		schedule.Name, len(schedule.Tasks), len(schedule.Calendars)))

	model := uc.models.NewModel(uc.header(cfg, schedule, in.OutputPath))

	importer := NewImportSchedule(uc.clock, uc.logger)
	result, err := importer.Execute(ctx, ImportScheduleInput{
		Schedule: schedule,
		Author:   model,
		Options:  NewImportOptions(cfg),
	})
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", in.InputPath, err)
	}

	out := &ConvertFileOutput{
		Stats:        model.Stats(),
		Import:       result,
		InputPath:    in.InputPath,
		OutputPath:   in.OutputPath,
		ScheduleName: schedule.Name,
		DryRun:       in.DryRun,
	}
	if in.DryRun {
		return out, nil
	}

	if err := uc.writer.Write(in.OutputPath, model); err != nil {
		return nil, fmt.Errorf("write model: %w", err)
	}
	uc.logger.Info("convert", fmt.Sprintf("wrote %s", in.OutputPath))
	return out, nil
}

// header derives the model header; the project GUID (or name) seeds identifiers
// so that converting the same document twice gives the same file.
func (uc *ConvertFile) header(cfg *domain.Config, s *domain.Schedule, outputPath string) domain.ModelHeader {
	timestamp := s.Created
	if timestamp.IsZero() {
		timestamp = uc.clock.Now()
	}
	seed := s.GUID
	if seed == "" {
		seed = s.Name
	}
	return domain.ModelHeader{
		Timestamp:    timestamp,
		Name:         filepath.Base(outputPath),
		ProjectName:  s.Name,
		Author:       cfg.Output.Author,
		Organization: cfg.Output.Organization,
		Application:  cfg.Output.Application,
		Seed:         seed,
	}
}
