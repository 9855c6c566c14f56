package proof

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ErrNoFiles is returned when a run is started without any input file
var ErrNoFiles = errors.New("please upload at least one PDF file")

// Source is one selected input file
type Source struct {
	Name string
	Data []byte
}

// Annotation is a single page annotation as reported by the PDF decoder
type Annotation struct {
	Subtype  string
	Title    string
	Contents string
}

// Document is a decoded PDF. Pages are numbered from 1.
type Document interface {
	PageCount() int
	Annotations(ctx context.Context, page int) ([]Annotation, error)
	Close() error
}

// Decoder turns raw PDF bytes into a Document
type Decoder interface {
	Decode(ctx context.Context, src Source) (Document, error)
}

// DecodeError reports a file that could not be decoded. Page is zero when the
// document itself failed to open.
type DecodeError struct {
	File string
	Page int
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("decode %s page %d: %v", e.File, e.Page, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.File, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// RunRequest is the input of one extraction run
type RunRequest struct {
	UploadDate string
	Files      []Source
}

// Result holds the rows and counters of one extraction run
type Result struct {
	RunID       string   `yaml:"run_id"`
	UploadDate  string   `yaml:"upload_date"`
	Rows        []Record `yaml:"-"`
	Files       int      `yaml:"files"`
	Pages       int      `yaml:"pages"`
	Annotations int      `yaml:"annotations"`
	Popups      int      `yaml:"popups"`
	Duplicates  int      `yaml:"duplicates"`
	Comments    int      `yaml:"comments"`
}

// Assembler turns a batch of annotated proofs into comment rows
type Assembler struct {
	decoder Decoder
	banner  string
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures an Assembler
type Option func(*Assembler)

// WithBanner overrides the banner written on each row
func WithBanner(banner string) Option {
	return func(a *Assembler) {
		if banner != "" {
			a.banner = banner
		}
	}
}

// WithClock sets the clock used for the default upload date
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		a.now = now
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAssembler creates an assembler backed by the given decoder
func NewAssembler(decoder Decoder, opts ...Option) *Assembler {
	a := &Assembler{
		decoder: decoder,
		banner:  DefaultBanner,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run processes the files strictly in order. Any decode failure aborts the
// whole run and no rows are returned.
func (a *Assembler) Run(ctx context.Context, req RunRequest) (*Result, error) {
	if len(req.Files) == 0 {
		return nil, ErrNoFiles
	}

	start := time.Now()
	uploadDate := req.UploadDate
	if uploadDate == "" {
		uploadDate = FormatDate(a.now())
	}

	result := &Result{
		RunID:      uuid.NewString(),
		UploadDate: uploadDate,
	}
	dedup := NewDeduplicator()

	for _, src := range req.Files {
		if err := a.processFile(ctx, src, result, dedup); err != nil {
			a.logger.Error("extract.run.failed",
				"run_id", result.RunID,
				"file", src.Name,
				"error", err,
			)
			return nil, err
		}
		result.Rows = append(result.Rows, BlankRecord())
		result.Files++
	}
	result.Comments = dedup.Len()

	a.logger.Info("extract.run.ok",
		"run_id", result.RunID,
		"files", result.Files,
		"pages", result.Pages,
		"comments", result.Comments,
		"duplicates", result.Duplicates,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (a *Assembler) processFile(ctx context.Context, src Source, result *Result, dedup *Deduplicator) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := a.decoder.Decode(ctx, src)
	if err != nil {
		return &DecodeError{File: src.Name, Err: err}
	}
	defer doc.Close()

	meta := ParseFilename(src.Name)
	a.logger.Debug("extract.file",
		"run_id", result.RunID,
		"file", src.Name,
		"pages", doc.PageCount(),
		"week", meta.Week,
		"page", meta.Page,
		"proof", meta.Proof,
		"zone", meta.Zone,
	)

	for page := 1; page <= doc.PageCount(); page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		annots, err := doc.Annotations(ctx, page)
		if err != nil {
			return &DecodeError{File: src.Name, Page: page, Err: err}
		}
		result.Pages++

		for _, annot := range annots {
			if IsPopup(annot.Subtype) {
				result.Popups++
				continue
			}
			result.Annotations++

			c := Classify(annot.Contents)
			if !dedup.CheckAndRecord(meta.Page, meta.Proof, c.Remarks) {
				result.Duplicates++
				continue
			}
			result.Rows = append(result.Rows, NewRecord(result.UploadDate, a.banner, meta, annot.Title, c))
		}
	}

	return nil
}
