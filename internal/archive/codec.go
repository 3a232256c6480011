package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/gosimple/slug"
	"github.com/hashicorp/go-multierror"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
)

// Format identifies what an export produced.
type Format int

const (
	// FormatDocument is a bare JSON document.
	FormatDocument Format = iota + 1
	// FormatBundle is a zip container.
	FormatBundle
)

// Extension returns the conventional file extension, including the dot.
func (f Format) Extension() string {
	if f == FormatBundle {
		return ".zip"
	}
	return ".json"
}

func (f Format) String() string {
	switch f {
	case FormatDocument:
		return "document"
	case FormatBundle:
		return "bundle"
	default:
		return "unknown"
	}
}

// Codec encodes and decodes backups.
type Codec struct {
	container Container
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewCodec creates a Codec. A nil container behaves like NoContainer.
func NewCodec(container Container, logger *slog.Logger) *Codec {
	if container == nil {
		container = NoContainer{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}
	return &Codec{
		container: container,
		validate:  v,
		logger:    logger.With(slog.String("component", "archive_codec")),
	}
}

// EntryName returns the container entry name for a group: "<id>-<slug>.json".
func EntryName(g domain.Group) string {
	s := slug.Make(g.Name)
	if s == "" {
		return strconv.FormatInt(g.ID, 10) + ".json"
	}
	return fmt.Sprintf("%d-%s.json", g.ID, s)
}

// ExportGroup encodes one group: a single-entry bundle when the container is
// supported, otherwise a bare group document.
func (c *Codec) ExportGroup(ctx context.Context, g domain.Group) ([]byte, Format, error) {
	doc, err := json.MarshalIndent(FromGroup(g), "", "  ")
	if err != nil {
		return nil, 0, fmt.Errorf("encode group %d: %w", g.ID, err)
	}
	if !c.container.Supported() {
		return doc, FormatDocument, nil
	}
	data, err := c.container.Pack(ctx, []Entry{{Name: EntryName(g), Data: doc}})
	if err != nil {
		return nil, 0, err
	}
	return data, FormatBundle, nil
}

// ExportAll encodes every group: one entry per group in a bundle, or a single
// {groups: [...]} document when the container is not supported.
func (c *Codec) ExportAll(ctx context.Context, groups []domain.Group) ([]byte, Format, error) {
	if !c.container.Supported() {
		bundle := BundleDocument{Groups: make([]GroupDocument, 0, len(groups))}
		for _, g := range groups {
			bundle.Groups = append(bundle.Groups, FromGroup(g))
		}
		data, err := json.MarshalIndent(bundle, "", "  ")
		if err != nil {
			return nil, 0, fmt.Errorf("encode bundle: %w", err)
		}
		return data, FormatDocument, nil
	}

	entries := make([]Entry, 0, len(groups))
	for _, g := range groups {
		doc, err := json.MarshalIndent(FromGroup(g), "", "  ")
		if err != nil {
			return nil, 0, fmt.Errorf("encode group %d: %w", g.ID, err)
		}
		entries = append(entries, Entry{Name: EntryName(g), Data: doc})
	}
	data, err := c.container.Pack(ctx, entries)
	if err != nil {
		return nil, 0, err
	}
	return data, FormatBundle, nil
}

// Decode reads a backup in any supported shape. It returns every group that
// decoded cleanly. When some entries failed, the returned error is a
// *multierror.Error of *FormatError values and the groups slice still holds
// the good entries.
func (c *Codec) Decode(ctx context.Context, data []byte) ([]GroupDocument, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	if !IsContainer(data) {
		groups, errs := c.decodeDocument("document", data)
		return groups, c.summarize(log, groups, errs)
	}

	entries, err := c.container.Unpack(ctx, data)
	if err != nil {
		if errors.Is(err, ErrContainerUnsupported) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &multierror.Error{Errors: []error{&FormatError{Entry: "container", Err: err}}}
	}

	var (
		groups []GroupDocument
		errs   []error
	)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.Err != nil {
			errs = append(errs, &FormatError{Entry: e.Name, Err: e.Err})
			continue
		}
		g, entryErrs := c.decodeDocument(e.Name, e.Data)
		groups = append(groups, g...)
		errs = append(errs, entryErrs...)
	}
	return groups, c.summarize(log, groups, errs)
}

// decodeDocument accepts a group document, a bundle document, or a bare JSON
// array of group documents.
func (c *Codec) decodeDocument(name string, data []byte) ([]GroupDocument, []error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, []error{&FormatError{Entry: name, Err: errors.New("empty document")}}
	}

	var raw []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, []error{&FormatError{Entry: name, Err: err}}
		}
	case '{':
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return nil, []error{&FormatError{Entry: name, Err: err}}
		}
		_, hasGroups := probe["groups"]
		_, hasName := probe["name"]
		if hasGroups && !hasName {
			if err := json.Unmarshal(probe["groups"], &raw); err != nil {
				return nil, []error{&FormatError{Entry: name, Err: fmt.Errorf("groups: %w", err)}}
			}
		} else {
			g, err := c.decodeGroup(trimmed)
			if err != nil {
				return nil, []error{&FormatError{Entry: name, Err: err}}
			}
			return []GroupDocument{g}, nil
		}
	default:
		return nil, []error{&FormatError{Entry: name, Err: errors.New("not a JSON object or array")}}
	}

	var (
		groups []GroupDocument
		errs   []error
	)
	for i, r := range raw {
		g, err := c.decodeGroup(r)
		if err != nil {
			errs = append(errs, &FormatError{Entry: fmt.Sprintf("%s: groups[%d]", name, i), Err: err})
			continue
		}
		groups = append(groups, g)
	}
	return groups, errs
}

func (c *Codec) decodeGroup(data []byte) (GroupDocument, error) {
	var g GroupDocument
	if err := json.Unmarshal(data, &g); err != nil {
		return GroupDocument{}, err
	}
	if err := c.validate.Struct(g); err != nil {
		return GroupDocument{}, fmt.Errorf("validation failed: %w", err)
	}
	return g, nil
}

func (c *Codec) summarize(log *slog.Logger, groups []GroupDocument, errs []error) error {
	if len(errs) == 0 {
		log.Debug("archive decoded", slog.Int("groups", len(groups)))
		return nil
	}
	log.Warn("archive decoded with skipped entries",
		slog.Int("groups", len(groups)),
		slog.Int("skipped", len(errs)))
	return multierror.Append(nil, errs...)
}
