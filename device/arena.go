package device

import (
	"context"
	"strconv"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/dyntype/device/internal/wasmbin"
	"github.com/wippyai/dyntype/dyn"
	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/internal/abi"
)

// base keeps offset 0 unused so a zero Region never aliases an upload.
const base = 16

// Region locates one uploaded instance in arena memory.
type Region struct {
	Offset uint32
	Size   uint32
	Align  uint32
	TypeID uint64
}

// Arena is a bump allocated linear memory inside a wazero runtime.
type Arena struct {
	cfg     Config
	runtime wazero.Runtime
	mem     *memory
	next    uint32
	regions int
	closed  bool
}

// Open instantiates a memory-only module and returns an arena over its
// exported memory. A nil cfg uses defaults.
func Open(ctx context.Context, cfg *Config) (*Arena, error) {
	c := cfg.withDefaults()

	runtimeCfg := wazero.NewRuntimeConfig().WithMemoryLimitPages(c.MaxPages)
	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	maxPages := c.MaxPages
	bin := wasmbin.MemoryModule(c.MemoryName, c.InitialPages, &maxPages)
	mod, err := rt.Instantiate(ctx, bin)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseDevice, errors.KindInvalidData, err, "instantiate memory module")
	}
	mem := mod.ExportedMemory(c.MemoryName)
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, errors.NotFound(errors.PhaseDevice, "memory export", c.MemoryName)
	}

	Logger().Debug("arena opened",
		zap.Uint32("pages", c.InitialPages),
		zap.Uint32("max_pages", c.MaxPages))

	return &Arena{
		cfg:     c,
		runtime: rt,
		mem:     &memory{mem: mem},
		next:    base,
	}, nil
}

// Upload allocates a region aligned for inst's type and stores inst into it.
func (a *Arena) Upload(inst dyn.Instance) (Region, error) {
	if a.closed {
		return Region{}, errors.Closed(errors.PhaseDevice, "arena")
	}
	t := inst.Type()
	size, ok := t.Size()
	if !ok {
		return Region{}, errors.Unrepresentable(errors.PhaseDevice, nil, t.Name())
	}
	buf, err := dyn.Encode(inst)
	if err != nil {
		return Region{}, err
	}

	off, err := a.alloc(uint32(size), uint32(t.Align()))
	if err != nil {
		return Region{}, err
	}
	if err := a.mem.write(off, buf); err != nil {
		return Region{}, err
	}
	a.regions++

	r := Region{Offset: off, Size: uint32(size), Align: uint32(t.Align()), TypeID: t.ID()}
	Logger().Debug("region uploaded",
		zap.String("type", t.Name()),
		zap.Uint32("offset", r.Offset),
		zap.Uint32("size", r.Size))
	return r, nil
}

// Download reads the instance stored at r back as type t. t must be the type
// r was uploaded with.
func (a *Arena) Download(t dyn.Type, r Region) (dyn.Instance, error) {
	if a.closed {
		return nil, errors.Closed(errors.PhaseDevice, "arena")
	}
	if t.ID() != r.TypeID {
		return nil, errors.New(errors.PhaseDevice, errors.KindTypeMismatch).
			DeviceType(t.Name()).
			Detail("region holds type %d, requested %d", r.TypeID, t.ID()).
			Build()
	}
	size, ok := t.Size()
	if !ok {
		return nil, errors.Unrepresentable(errors.PhaseDevice, nil, t.Name())
	}
	if uint32(size) != r.Size {
		return nil, errors.New(errors.PhaseDevice, errors.KindInvalidData).
			DeviceType(t.Name()).
			Detail("region size %d does not match type size %d", r.Size, size).
			Build()
	}
	if err := a.checkTag(t, r.Offset, nil); err != nil {
		return nil, err
	}

	data, err := a.mem.view(r.Offset, r.Size)
	if err != nil {
		return nil, err
	}
	return dyn.Decode(t, data)
}

// checkTag validates every variant tag in the region so a corrupted memory
// is reported as an error instead of a load panic.
func (a *Arena) checkTag(t dyn.Type, offset uint32, path []string) error {
	switch tt := t.(type) {
	case *dyn.Tuple:
		offs := tt.Offsets()
		for i := 0; i < tt.Len(); i++ {
			if err := a.checkTag(tt.Field(i), offset+uint32(offs[i]), append(path, fieldLabel(i))); err != nil {
				return err
			}
		}
	case *dyn.Variant:
		tag, err := a.mem.readU64(offset)
		if err != nil {
			return err
		}
		if tag >= uint64(tt.Len()) {
			return errors.InvalidDiscriminant(errors.PhaseDevice, path, tag, tt.Len())
		}
		idx := int(tag)
		return a.checkTag(tt.Component(idx), offset+uint32(tt.PayloadOffset()), append(path, variantLabel(idx)))
	}
	return nil
}

// Raw returns a copy of the bytes of r.
func (a *Arena) Raw(r Region) ([]byte, error) {
	if a.closed {
		return nil, errors.Closed(errors.PhaseDevice, "arena")
	}
	return a.mem.read(r.Offset, r.Size)
}

func (a *Arena) alloc(size, align uint32) (uint32, error) {
	off := uint32(abi.AlignTo(int(a.next), int(align)))
	end := uint64(off) + uint64(size)
	if end > uint64(a.cfg.MaxPages)*wasmbin.PageSize {
		return 0, errors.AllocationFailed(errors.PhaseDevice, size, align)
	}
	if have := uint64(a.mem.size()); end > have {
		delta := uint32((end - have + wasmbin.PageSize - 1) / wasmbin.PageSize)
		if _, ok := a.mem.grow(delta); !ok {
			return 0, errors.AllocationFailed(errors.PhaseDevice, size, align)
		}
		Logger().Debug("arena grown", zap.Uint32("pages", delta))
	}
	a.next = uint32(end)
	return off, nil
}

// Used reports the number of bytes allocated, including alignment padding.
func (a *Arena) Used() uint32 {
	return a.next - base
}

// Regions reports the number of uploads since the last Reset.
func (a *Arena) Regions() int {
	return a.regions
}

// Reset releases every region. Memory is not shrunk; earlier Regions must not
// be downloaded afterwards.
func (a *Arena) Reset() {
	a.next = base
	a.regions = 0
}

// Close releases the runtime. Close is idempotent.
func (a *Arena) Close(ctx context.Context) error {
	if a.closed {
		return nil
	}
	a.closed = true
	Logger().Debug("arena closed", zap.Int("regions", a.regions))
	return a.runtime.Close(ctx)
}

func fieldLabel(i int) string {
	return "field" + strconv.Itoa(i)
}

func variantLabel(i int) string {
	return "variant" + strconv.Itoa(i)
}
