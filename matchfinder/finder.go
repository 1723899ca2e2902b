package matchfinder

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Algo names which dictionary store a Finder was bound to at Create time.
type Algo int

const (
	AlgoHC Algo = iota
	AlgoBT
	AlgoCEHC
)

// maxHistorySize is the design ceiling Create enforces on Config.HistorySize,
// referenced by ErrHistorySizeTooLarge's doc comment.
const maxHistorySize = 1 << 30

func (a Algo) String() string {
	switch a {
	case AlgoHC:
		return "hc"
	case AlgoBT:
		return "bt"
	case AlgoCEHC:
		return "cehc"
	default:
		return "unknown"
	}
}

// Config parameterizes a Finder. NumHashBytes, CutValue, MatchMaxLen and
// HistorySize are mandatory; everything else has a usable zero value.
type Config struct {
	// HistorySize is how many bytes back a match may reference.
	HistorySize uint32
	// MatchMaxLen caps the length GetMatches will ever report.
	MatchMaxLen uint32

	// KeepAddBufferBefore/After set the minimum look-behind and look-ahead
	// margins the window keeps around the cursor. The window always keeps
	// at least HistorySize before and MatchMaxLen after, so a value at or
	// below those (including 0) has no effect.
	KeepAddBufferBefore uint32
	KeepAddBufferAfter  uint32

	// NumHashBytes selects the main hash width, 2..5.
	NumHashBytes int
	// CutValue bounds how many chain links/tree nodes a single search
	// walk may visit.
	CutValue int

	// BTMode selects the binary-search-tree dictionary store instead of
	// the default hash-chain. Ignored when CacheEfficientSearch is set.
	BTMode bool
	// CacheEfficientSearch selects the fixed-slot cache-efficient
	// hash-chain dictionary store, taking precedence over BTMode.
	CacheEfficientSearch bool
	// Level is a coarse 1-12 knob: higher levels widen CutValue's
	// effective ceiling and pick the larger CEHC slot size (Level >= 7).
	// Finder itself only consults it for the CEHC slot size; the profile
	// package derives the rest of Config from it.
	Level int

	// ExpectedDataSize hints the hash-index sizing; 0 means unknown.
	ExpectedDataSize uint64

	Logger     *zap.Logger
	Registerer prometheus.Registerer
}

// Finder is a single compression session's match-search engine: a sliding
// window over the input plus exactly one dictionary store, bound at Create
// time and never switched thereafter.
type Finder struct {
	cfg Config

	win *window
	hi  *hashIndex
	m   matcher

	algo             Algo
	cyclicBufferSize uint32

	normalizeThreshold uint32

	log     *zap.Logger
	metrics *metrics
}

// Create validates cfg, allocates the window and hash-index, and binds the
// dictionary store implied by cfg.BTMode/CacheEfficientSearch. It does not
// read from src; call Init to prime the look-ahead buffer.
func Create(cfg Config, src ByteSource) (*Finder, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	keepBefore := cfg.KeepAddBufferBefore
	if keepBefore < cfg.HistorySize {
		keepBefore = cfg.HistorySize
	}
	keepAfter := cfg.KeepAddBufferAfter
	if keepAfter < cfg.MatchMaxLen {
		keepAfter = cfg.MatchMaxLen
	}
	blockSize := keepBefore + keepAfter
	if blockSize < 2*kBlockMoveAlign {
		blockSize = 2 * kBlockMoveAlign
	}

	win := newWindow(blockSize, keepBefore, keepAfter, src, log)
	hi := newHashIndex(cfg.NumHashBytes, cfg.HistorySize, cfg.ExpectedDataSize)
	cyclicBufferSize := cfg.HistorySize + 1

	var algo Algo
	var m matcher
	switch {
	case cfg.CacheEfficientSearch:
		algo = AlgoCEHC
		slotSize := uint32(8)
		if cfg.Level >= 7 {
			slotSize = 16
		}
		m = newCEHCDict(hi.mask+1, slotSize)
	case cfg.BTMode:
		algo = AlgoBT
		m = newBTDict(cyclicBufferSize)
	default:
		algo = AlgoHC
		m = newHCDict(cyclicBufferSize)
	}

	return &Finder{
		cfg:                cfg,
		win:                win,
		hi:                 hi,
		m:                  m,
		algo:               algo,
		cyclicBufferSize:   cyclicBufferSize,
		normalizeThreshold: defaultNormalizeThreshold,
		log:                log,
		metrics:            newMetrics(cfg.Registerer),
	}, nil
}

func validateConfig(cfg Config) error {
	if cfg.NumHashBytes < 2 || cfg.NumHashBytes > 5 {
		return ErrHashWidthOutOfRange
	}
	if cfg.CutValue <= 0 {
		return ErrCutValueInvalid
	}
	if cfg.MatchMaxLen == 0 {
		return ErrMatchMaxLenInvalid
	}
	if cfg.HistorySize == 0 || cfg.HistorySize > maxHistorySize {
		return ErrHistorySizeTooLarge
	}
	return nil
}

// Algo reports which dictionary store this Finder was bound to.
func (f *Finder) Algo() Algo { return f.algo }

// LoadDictionary primes the dictionary store with dict before any real
// input is consumed, so the first GetMatches/Skip call on the real stream
// can already reference back into dict. It must be called before Init and
// before the first GetMatches/Skip; calling it once matching has begun
// returns ErrDictionaryTooLate.
func (f *Finder) LoadDictionary(dict []byte) error {
	if f.win.pos != 1 || f.win.streamPos != 1 {
		return ErrDictionaryTooLate
	}
	if len(dict) == 0 {
		return nil
	}
	if uint32(len(dict)) > f.win.blockSize-f.win.bufOffset() {
		return ErrDictionaryTooLarge
	}

	copy(f.win.base[f.win.bufOffset():], dict)
	f.win.streamPos += uint32(len(dict))
	return f.Skip(len(dict))
}

// Init primes the look-ahead buffer with the first read(s) from the
// configured ByteSource. Calling it is optional; AvailableBytes, GetMatches
// and Skip all feed on demand, but Init surfaces an initial-read error
// before any positions have been consumed.
func (f *Finder) Init() error {
	return f.ensureFed()
}

func (f *Finder) ensureFed() error {
	f.win.moveIfNeeded()
	return f.win.feed()
}

// AvailableBytes returns how many ingested-but-unconsumed bytes remain
// ahead of the cursor, topping up the look-ahead buffer first. A read error
// is swallowed here; it resurfaces from the next GetMatches or Skip call.
func (f *Finder) AvailableBytes() uint32 {
	_ = f.ensureFed()
	return f.win.availableBytes()
}

// GetMatches searches the bound dictionary store for back-reference
// candidates at the current cursor, appends any improving (length,
// distance-1) pairs to out in strictly increasing length order, advances
// the cursor by one byte, and returns the extended slice.
func (f *Finder) GetMatches(out []Match) ([]Match, error) {
	if err := f.ensureFed(); err != nil {
		return out, err
	}
	if f.win.availableBytes() == 0 {
		return out, nil
	}

	lenLimit := int(f.win.availableBytes())
	if lenLimit > int(f.cfg.MatchMaxLen) {
		lenLimit = int(f.cfg.MatchMaxLen)
	}

	before := len(out)
	out = f.m.getMatches(f, lenLimit, out)
	if f.metrics != nil {
		f.metrics.matchesEmitted.Add(float64(len(out) - before))
	}

	f.win.pos++
	f.maybeNormalize()
	return out, nil
}

// Skip advances the cursor by n positions, inserting each into the
// dictionary store without searching for or reporting matches. It stops
// early, without error, if the source runs out of bytes first.
func (f *Finder) Skip(n int) error {
	for i := 0; i < n; i++ {
		if err := f.ensureFed(); err != nil {
			return err
		}
		if f.win.availableBytes() == 0 {
			return nil
		}
		f.m.skip(f)
		f.win.pos++
		f.maybeNormalize()
	}
	return nil
}

// ringIndex maps an absolute logical position to its slot in a
// cyclicBufferSize-sized ring. It is a plain modulo: maybeNormalize only
// ever subtracts multiples of cyclicBufferSize, so a position's ring slot
// never changes across a normalize.
func (f *Finder) ringIndex(pos uint32) uint32 {
	return pos % f.cyclicBufferSize
}
