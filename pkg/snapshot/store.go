package snapshot

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/agentstation/whichllm/pkg/constants"
	"github.com/agentstation/whichllm/pkg/errors"
	"github.com/agentstation/whichllm/pkg/logging"
)

// MetaKey is the Parquet footer key holding the YAML-encoded Meta.
const MetaKey = "whichllm.meta"

// Store reads and writes one named artifact of T rows in a directory.
// T must be a struct carrying parquet tags.
type Store[T any] struct {
	dir  string
	name string
}

// NewStore creates a store for <dir>/<name>.parquet.
func NewStore[T any](dir, name string) *Store[T] {
	return &Store[T]{dir: dir, name: name}
}

// Name returns the artifact name.
func (s *Store[T]) Name() string {
	return s.name
}

// DataPath returns the path of the data file.
func (s *Store[T]) DataPath() string {
	return filepath.Join(s.dir, s.name+constants.DataExtension)
}

// MetaPath returns the path of the metadata sidecar.
func (s *Store[T]) MetaPath() string {
	return filepath.Join(s.dir, s.name+constants.MetaExtension)
}

// Exists reports whether the data file is present.
func (s *Store[T]) Exists() bool {
	_, err := os.Stat(s.DataPath())
	return err == nil
}

// LoadMeta reads the metadata embedded in the data file footer without
// decoding any rows.
func (s *Store[T]) LoadMeta() (*Meta, error) {
	pr, closeFn, err := s.open()
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return s.footerMeta(pr)
}

// Load reads the artifact and verifies its fingerprint. A missing artifact
// returns a NotFoundError; an unreadable or inconsistent one returns a
// CorruptionError.
func (s *Store[T]) Load() (*Snapshot[T], error) {
	pr, closeFn, err := s.open()
	if err != nil {
		return nil, err
	}
	defer closeFn()

	path := s.DataPath()
	meta, err := s.footerMeta(pr)
	if err != nil {
		return nil, err
	}
	if meta.Version != FormatVersion {
		return nil, errors.NewCorruptionError(path,
			fmt.Errorf("format version %d, want %d", meta.Version, FormatVersion))
	}

	recs, err := readRows[T](pr)
	if err != nil {
		return nil, errors.NewCorruptionError(path, err)
	}

	fp, err := Fingerprint(recs)
	if err != nil {
		return nil, errors.NewCorruptionError(path, err)
	}
	if fp != meta.Fingerprint {
		return nil, errors.NewCorruptionError(path,
			fmt.Errorf("fingerprint %s does not match metadata %s", fp, meta.Fingerprint))
	}
	if meta.Records != len(recs) {
		return nil, errors.NewCorruptionError(path,
			fmt.Errorf("%d records, metadata says %d", len(recs), meta.Records))
	}

	return &Snapshot[T]{Records: recs, Meta: *meta}, nil
}

// Save writes the artifact. The rows and their metadata go into a single
// Parquet file that is renamed into place, so the rename is the only commit
// point. The YAML sidecar is refreshed afterwards for humans and tooling;
// failing to write it is logged and does not fail the save.
func (s *Store[T]) Save(snap *Snapshot[T]) error {
	if snap == nil {
		return errors.NewValidationError("snapshot", nil, "cannot save nil snapshot")
	}
	if err := os.MkdirAll(s.dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("mkdir", s.dir, err)
	}

	if snap.Meta.Name == "" {
		snap.Meta.Name = s.name
	}
	snap.Meta.Version = FormatVersion
	snap.Meta.Records = len(snap.Records)
	fp, err := Fingerprint(snap.Records)
	if err != nil {
		return err
	}
	snap.Meta.Fingerprint = fp

	meta, err := yaml.Marshal(&snap.Meta)
	if err != nil {
		return errors.WrapParse("yaml", s.MetaPath(), err)
	}
	data, err := encodeParquet(snap.Records, string(meta))
	if err != nil {
		return errors.WrapIO("encode", s.DataPath(), err)
	}

	dataTmp, err := s.writeTemp(data)
	if err != nil {
		return err
	}
	if err := os.Rename(dataTmp, s.DataPath()); err != nil {
		_ = os.Remove(dataTmp)
		return errors.WrapIO("rename", s.DataPath(), err)
	}

	if err := s.writeSidecar(meta); err != nil {
		logging.Warn().Err(err).Str("artifact", s.name).Msg("Failed to refresh metadata sidecar")
	}
	return nil
}

// Remove deletes both files of the artifact. Missing files are ignored.
func (s *Store[T]) Remove() error {
	for _, path := range []string{s.DataPath(), s.MetaPath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.WrapIO("remove", path, err)
		}
	}
	return nil
}

func (s *Store[T]) writeSidecar(meta []byte) error {
	tmp, err := s.writeTemp(meta)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, s.MetaPath()); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapIO("rename", s.MetaPath(), err)
	}
	return nil
}

// open reads the whole data file into memory and opens a Parquet reader over
// it. Reading through a path would reopen the file per column and could mix
// two generations of the artifact.
func (s *Store[T]) open() (pr *reader.ParquetReader, closeFn func(), err error) {
	path := s.DataPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.NewNotFoundError("snapshot", s.name)
		}
		return nil, nil, errors.WrapIO("read", path, err)
	}

	// The reader panics on some malformed footers.
	defer func() {
		if r := recover(); r != nil {
			pr = nil
			closeFn = nil
			err = errors.NewCorruptionError(path, fmt.Errorf("decode parquet: %v", r))
		}
	}()

	bf, err := buffer.NewBufferFile(data)
	if err != nil {
		return nil, nil, errors.NewCorruptionError(path, err)
	}
	pr, err = reader.NewParquetReader(bf, new(T), constants.ParquetParallelism)
	if err != nil {
		_ = bf.Close()
		return nil, nil, errors.NewCorruptionError(path, err)
	}
	return pr, func() {
		pr.ReadStop()
		_ = bf.Close()
	}, nil
}

func (s *Store[T]) footerMeta(pr *reader.ParquetReader) (*Meta, error) {
	path := s.DataPath()
	var raw *string
	for _, kv := range pr.Footer.GetKeyValueMetadata() {
		if kv != nil && kv.Key == MetaKey {
			raw = kv.Value
		}
	}
	if raw == nil {
		return nil, errors.NewCorruptionError(path, fmt.Errorf("footer has no %s entry", MetaKey))
	}

	var meta Meta
	if err := yaml.Unmarshal([]byte(*raw), &meta); err != nil {
		return nil, errors.NewCorruptionError(path, err)
	}
	if meta.Fingerprint == "" {
		return nil, errors.NewCorruptionError(path, fmt.Errorf("missing fingerprint"))
	}
	return &meta, nil
}

// writeTemp writes data to a synced temporary file in the store directory.
func (s *Store[T]) writeTemp(data []byte) (string, error) {
	f, err := os.CreateTemp(s.dir, "."+s.name+".*.tmp")
	if err != nil {
		return "", errors.WrapIO("create", s.dir, err)
	}
	name := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", errors.WrapIO("write", name, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", errors.WrapIO("sync", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", errors.WrapIO("close", name, err)
	}
	if err := os.Chmod(name, constants.FilePermissions); err != nil {
		_ = os.Remove(name)
		return "", errors.WrapIO("chmod", name, err)
	}
	return name, nil
}

// encodeParquet serializes rows into an in-memory Parquet file whose footer
// carries meta under MetaKey.
func encodeParquet[T any](rows []T, meta string) ([]byte, error) {
	buf := &bytes.Buffer{}
	pfw := writerfile.NewWriterFile(buf)
	pw, err := writer.NewParquetWriter(pfw, new(T), constants.ParquetParallelism)
	if err != nil {
		return nil, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := range rows {
		if err := pw.Write(rows[i]); err != nil {
			_ = pw.WriteStop()
			_ = pfw.Close()
			return nil, err
		}
	}
	pw.Footer.KeyValueMetadata = append(pw.Footer.KeyValueMetadata,
		&parquet.KeyValue{Key: MetaKey, Value: &meta})
	if err := pw.WriteStop(); err != nil {
		_ = pfw.Close()
		return nil, err
	}
	_ = pfw.Close()
	return buf.Bytes(), nil
}

// readRows decodes every row. The reader panics on some malformed inputs, so
// panics are converted to errors.
func readRows[T any](pr *reader.ParquetReader) (rows []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows = nil
			err = fmt.Errorf("decode parquet: %v", r)
		}
	}()

	n := int(pr.GetNumRows())
	rows = make([]T, n)
	if n == 0 {
		return rows, nil
	}
	if err := pr.Read(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}
