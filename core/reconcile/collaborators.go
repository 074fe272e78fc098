package reconcile

import (
	"context"
	"errors"
)

// Classifier turns a file path into structured metadata. Both calls must be
// deterministic for a given path. ClassifyType runs first so entries with a
// strict type can drop a file before its metadata is extracted.
type Classifier interface {
	ClassifyType(path string) MediaType
	ExtractMetadata(path string, t MediaType) (Metadata, error)
}

// PathFormatter renders a destination path template with metadata. The
// returned path is relative and is joined below the entry's target path.
type PathFormatter interface {
	Render(template string, meta Metadata) (string, error)
}

// ClassifierFunc adapts an ordinary extraction function to the Classifier
// interface. The media type is read from the "type" key of its result.
type ClassifierFunc func(path string) (Metadata, error)

// ClassifyType calls f(path) and reports the extracted type.
func (f ClassifierFunc) ClassifyType(path string) MediaType {
	meta, err := f(path)
	if err != nil {
		return MediaUnknown
	}
	return mediaType(meta)
}

// ExtractMetadata calls f(path).
func (f ClassifierFunc) ExtractMetadata(path string, _ MediaType) (Metadata, error) {
	return f(path)
}

// FormatterFunc adapts an ordinary function to the PathFormatter interface.
type FormatterFunc func(template string, meta Metadata) (string, error)

// Render calls f(template, meta).
func (f FormatterFunc) Render(template string, meta Metadata) (string, error) {
	return f(template, meta)
}

// Recorder observes registry mutations and finished passes, e.g. to journal
// them in a database or publish a manifest. Recorders are not called during
// dry runs.
type Recorder interface {
	RecordDecision(ctx context.Context, entry int, event DecisionEvent) error
	RecordRemoval(ctx context.Context, entry int, record LinkRecord) error
	RecordPass(ctx context.Context, result PassResult, records []LinkRecord) error
}

// Recorders fans out every call to each recorder and joins the errors.
type Recorders []Recorder

// RecordDecision implements Recorder.
func (rs Recorders) RecordDecision(ctx context.Context, entry int, event DecisionEvent) error {
	var errs []error
	for _, r := range rs {
		errs = append(errs, r.RecordDecision(ctx, entry, event))
	}
	return errors.Join(errs...)
}

// RecordRemoval implements Recorder.
func (rs Recorders) RecordRemoval(ctx context.Context, entry int, record LinkRecord) error {
	var errs []error
	for _, r := range rs {
		errs = append(errs, r.RecordRemoval(ctx, entry, record))
	}
	return errors.Join(errs...)
}

// RecordPass implements Recorder.
func (rs Recorders) RecordPass(ctx context.Context, result PassResult, records []LinkRecord) error {
	var errs []error
	for _, r := range rs {
		errs = append(errs, r.RecordPass(ctx, result, records))
	}
	return errors.Join(errs...)
}

type nopRecorder struct{}

func (nopRecorder) RecordDecision(context.Context, int, DecisionEvent) error { return nil }
func (nopRecorder) RecordRemoval(context.Context, int, LinkRecord) error     { return nil }
func (nopRecorder) RecordPass(context.Context, PassResult, []LinkRecord) error {
	return nil
}
