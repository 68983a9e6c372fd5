package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"bgql/internal/config"
	"bgql/internal/diag"
	"bgql/internal/result"
	"bgql/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты прогонов по файлам на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedFile is one document the run read; Index-th entry had FileID Index.
type CachedFile struct {
	Path    string
	Hash    [32]byte
	Virtual bool
}

type CachedSpan struct {
	File  uint32
	Start uint32
	End   uint32
}

type CachedNote struct {
	Span CachedSpan
	Msg  string
}

// CachedDiagnostic drops fixes; everything renderers print is kept.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Primary  CachedSpan
	Notes    []CachedNote
}

// DiskPayload stores one run: the files it read, its diagnostics and the public result.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema      uint16
	Files       []CachedFile
	Diagnostics []CachedDiagnostic
	Output      result.ParseResult
}

// CacheKey identifies a run by the root document and every option that changes its outcome.
// Module files are validated separately on Get.
type CacheKey [32]byte

func (k CacheKey) String() string { return hex.EncodeToString(k[:]) }

// OpenDiskCache initializes a cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt uses dir as is.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key CacheKey) string {
	hexKey := key.String()
	// двухсимвольный префикс, чтобы не держать всё в одном каталоге
	return filepath.Join(c.dir, "runs", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key CacheKey, payload *DiskPayload) error {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// после Rename файла уже нет
		_ = os.Remove(tmp)
	}()

	payload.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads a payload; a missing entry or an older schema is a miss.
func (c *DiskCache) Get(key CacheKey, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	if payload.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	*out = payload
	return true, nil
}

// DropAll removes every cached run.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "runs"))
}

// cacheKey: H(schema || options || root path || root content).
func cacheKey(file *source.File, opts Options) CacheKey {
	h := sha256.New()
	fmt.Fprintf(h, "v%d\x00%s\x00%s\x00%t\x00%t\x00", diskCacheSchemaVersion,
		opts.Config.Fingerprint(), opts.Stage, opts.IgnoreWarnings, opts.WarningsAsErrors)
	abs, err := filepath.Abs(file.Path)
	if err != nil {
		abs = file.Path
	}
	_, _ = h.Write([]byte(abs))
	_, _ = h.Write(file.Hash[:])
	var out CacheKey
	copy(out[:], h.Sum(nil))
	return out
}

// toDiskPayload snapshots res; fixes and dropped counts are not kept.
func toDiskPayload(res *Result) *DiskPayload {
	payload := &DiskPayload{
		Files:  make([]CachedFile, res.FileSet.Len()),
		Output: res.Output,
	}
	for i := range payload.Files {
		f := res.FileSet.Get(source.FileID(i)) //nolint:gosec // i < FileSet.Len()
		payload.Files[i] = CachedFile{Path: f.Path, Hash: f.Hash, Virtual: f.Flags&source.FileVirtual != 0}
	}
	items := res.Bag.Items()
	payload.Diagnostics = make([]CachedDiagnostic, len(items))
	for i, d := range items {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Primary:  cachedSpan(d.Primary),
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Span: cachedSpan(n.Span), Msg: n.Msg})
		}
		payload.Diagnostics[i] = cd
	}
	return payload
}

func cachedSpan(sp source.Span) CachedSpan {
	return CachedSpan{File: uint32(sp.File), Start: sp.Start, End: sp.End}
}

// restore rebuilds a Result from payload. It fails when any recorded file
// changed on disk, so a stale entry never survives a module edit.
func restore(payload *DiskPayload, maxDiagnostics int) (*Result, error) {
	if len(payload.Files) == 0 {
		return nil, errors.New("cache entry has no files")
	}
	fs := source.NewFileSet()
	for i, cf := range payload.Files {
		var (
			id  source.FileID
			err error
		)
		if cf.Virtual {
			var raw []byte
			raw, err = os.ReadFile(cf.Path)
			if err == nil {
				id = fs.AddSource(cf.Path, string(raw))
			}
		} else {
			id, err = fs.Load(cf.Path)
		}
		if err != nil {
			return nil, err
		}
		n, err := safecast.Conv[int](uint32(id))
		if err != nil || n != i || fs.Get(id).Hash != cf.Hash {
			return nil, fmt.Errorf("%s changed since it was cached", cf.Path)
		}
	}

	bag := diag.NewBag(max(maxDiagnostics, len(payload.Diagnostics)))
	for _, cd := range payload.Diagnostics {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), restoreSpan(cd.Primary), cd.Message)
		for _, n := range cd.Notes {
			d = d.WithNote(restoreSpan(n.Span), n.Msg)
		}
		bag.Add(d)
	}
	payload.Output.EnsureArrays()
	res := &Result{
		FileSet: fs,
		File:    fs.Get(0),
		Bag:     bag,
		Output:  payload.Output,
		Cached:  true,
	}
	return res, nil
}

func restoreSpan(sp CachedSpan) source.Span {
	return source.Span{File: source.FileID(sp.File), Start: sp.Start, End: sp.End}
}

// DiagnoseFileCached consults cache before running; a nil cache just runs.
// Cache I/O problems never fail the run.
func DiagnoseFileCached(path string, opts Options, cache *DiskCache) (*Result, error) {
	if cache == nil {
		return DiagnoseFile(path, opts)
	}
	if opts.Config == (config.Config{}) {
		opts.Config = config.Default()
	}
	if opts.Stage == "" {
		opts.Stage = StageAll
	}
	probe := source.NewFileSet()
	id, err := probe.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	key := cacheKey(probe.Get(id), opts)

	var payload DiskPayload
	if ok, _ := cache.Get(key, &payload); ok {
		if res, err := restore(&payload, opts.Config.Limits.MaxDiagnostics); err == nil {
			return res, nil
		}
	}

	res, err := DiagnoseFile(path, opts)
	if err != nil {
		return nil, err
	}
	_ = cache.Put(key, toDiskPayload(res))
	return res, nil
}
