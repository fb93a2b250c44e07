package wasmbin

const (
	sectionMemory byte = 5
	sectionExport byte = 7

	exportMemory byte = 0x02
	limitsHasMax byte = 0x01
)

var header = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

// PageSize is the size of one linear memory page.
const PageSize = 65536

// MemoryModule encodes a module declaring a single memory of minPages pages,
// exported under name. A nil maxPages leaves the memory unbounded.
func MemoryModule(name string, minPages uint32, maxPages *uint32) []byte {
	mem := NewWriter()
	mem.WriteU32(1)
	if maxPages != nil {
		mem.Byte(limitsHasMax)
		mem.WriteU32(minPages)
		mem.WriteU32(*maxPages)
	} else {
		mem.Byte(0)
		mem.WriteU32(minPages)
	}

	exp := NewWriter()
	exp.WriteU32(1)
	exp.WriteName(name)
	exp.Byte(exportMemory)
	exp.WriteU32(0)

	w := NewWriter()
	w.WriteBytes(header)
	w.Section(sectionMemory, mem.Bytes())
	w.Section(sectionExport, exp.Bytes())
	return w.Bytes()
}
