// Package documents stages identity documents in a blob bucket.
package documents

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
)

const (
	MaxDocumentSize = 5 << 20

	stagingPrefix   = "tmp/"
	committedPrefix = "id-proofs/"
)

var allowedTypes = []string{"application/pdf", "image/jpeg"}

var _ ports.DocumentStore = (*Store)(nil)

// Store writes uploads under tmp/ and moves them to id-proofs/ on commit.
type Store struct {
	bucket *blob.Bucket
	newID  func() string
}

func NewStore(bucket *blob.Bucket) *Store {
	return &Store{bucket: bucket, newID: uuid.NewString}
}

// Stage sniffs and size-checks content before writing it to the staging area.
func (s *Store) Stage(ctx context.Context, filename string, content io.Reader) (ports.StagedDocument, error) {
	data, err := io.ReadAll(io.LimitReader(content, MaxDocumentSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "read upload")
	}
	if len(data) > MaxDocumentSize {
		return nil, ports.ErrDocumentTooLarge
	}
	detected := mimetype.Detect(data)
	if !mimetype.EqualsAny(detected.String(), allowedTypes...) {
		return nil, ports.ErrDocumentUnsupported
	}
	key := stagingPrefix + s.newID() + detected.Extension()
	opts := &blob.WriterOptions{
		ContentType: detected.String(),
		Metadata:    map[string]string{"original-name": sanitizeName(filename)},
	}
	if err := s.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return nil, errors.Wrapf(err, "stage document %s", key)
	}
	return &stagedDocument{bucket: s.bucket, key: key}, nil
}

// Open streams a committed document back, e.g. for admin review.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open document %s", key)
	}
	return r, nil
}

type stagedDocument struct {
	bucket *blob.Bucket
	key    string
	kept   bool
}

func (d *stagedDocument) Key() string { return d.key }

// Commit moves the document to its permanent key and returns it.
func (d *stagedDocument) Commit(ctx context.Context) (string, error) {
	if strings.HasPrefix(d.key, committedPrefix) {
		return d.key, nil
	}
	dst := committedPrefix + path.Base(d.key)
	if err := d.bucket.Copy(ctx, dst, d.key, nil); err != nil {
		return "", errors.Wrapf(err, "commit document %s", d.key)
	}
	src := d.key
	d.key = dst
	if err := d.bucket.Delete(ctx, src); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return "", errors.Wrapf(err, "remove staged document %s", src)
	}
	return dst, nil
}

func (d *stagedDocument) Keep() { d.kept = true }

// Release deletes the document unless it was kept. Missing keys are not an error.
func (d *stagedDocument) Release(ctx context.Context) error {
	if d.kept {
		return nil
	}
	err := d.bucket.Delete(ctx, d.key)
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return errors.Wrapf(err, "release document %s", d.key)
	}
	return nil
}

func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b bytes.Buffer
	for _, r := range name {
		if r < 0x20 || r > 0x7e {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
