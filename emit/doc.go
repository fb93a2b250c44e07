// Package emit assembles device translation units from descriptors.
//
// A Program collects root descriptors and produces one source file: a
// header, the target prelude that defines the real vector family, every
// composite definition exactly once in dependency order, optional readable
// aliases, and optional compile-time layout checks. The checks make the
// device compiler reject the file if any emitted struct disagrees with the
// size or alignment computed on the host.
//
//	p := emit.New(target.Default).WithChecks(true)
//	if err := p.Alias("shape", shape); err != nil { ... }
//	src := p.Source()
package emit
