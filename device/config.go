package device

const (
	defaultMaxPages   = 256 // 16MB
	defaultMemoryName = "memory"
)

// Config holds configuration for arena creation.
type Config struct {
	// InitialPages is the memory size at instantiation in 64KB pages.
	// 0 means 1.
	InitialPages uint32

	// MaxPages caps memory growth. 0 means 256 pages (16MB).
	MaxPages uint32

	// MemoryName is the export name of the memory. Empty means "memory".
	MemoryName string
}

func (c *Config) withDefaults() Config {
	var out Config
	if c != nil {
		out = *c
	}
	if out.MaxPages == 0 {
		out.MaxPages = defaultMaxPages
	}
	if out.InitialPages == 0 {
		out.InitialPages = 1
	}
	if out.InitialPages > out.MaxPages {
		out.InitialPages = out.MaxPages
	}
	if out.MemoryName == "" {
		out.MemoryName = defaultMemoryName
	}
	return out
}
