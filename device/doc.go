// Package device moves boxed instances across the host/device boundary
// through a WebAssembly linear memory hosted by wazero.
//
// An Arena owns one runtime and one instantiated memory module. Uploads are
// bump allocated at the alignment of their type and written with the exact
// bytes Store produces, so the memory holds what a device kernel would read.
//
//	a, err := device.Open(ctx, nil)
//	if err != nil {
//		return err
//	}
//	defer a.Close(ctx)
//
//	r, err := a.Upload(inst)
//	back, err := a.Download(inst.Type(), r)
//
// Arena is not safe for concurrent use.
package device
