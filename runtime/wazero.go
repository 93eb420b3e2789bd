package runtime

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"

	"github.com/govm-net/contract/types"
)

// initEngine creates the wazero runtime and instantiates the "env" host
// module and WASI.
func (r *Runtime) initEngine(ctx context.Context) error {
	r.engine = wazero.NewRuntime(ctx)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r.engine); err != nil {
		return fmt.Errorf("failed to instantiate wasi: %w", err)
	}

	b := r.engine.NewHostModuleBuilder(types.HostModule)

	b.NewFunctionBuilder().
		WithParameterNames("key_ptr", "key_len", "value_ptr", "value_len").
		WithFunc(func(_ context.Context, m api.Module, keyPtr, keyLen, valuePtr, valueLen uint32) {
			r.setStorage(m.Memory(), keyPtr, keyLen, valuePtr, valueLen)
		}).
		Export(types.HostSetStorage)

	b.NewFunctionBuilder().
		WithParameterNames("key_ptr", "key_len").
		WithResultNames("size").
		WithFunc(func(_ context.Context, m api.Module, keyPtr, keyLen uint32) uint32 {
			return r.getStorageSize(m.Memory(), keyPtr, keyLen)
		}).
		Export(types.HostGetStorageSize)

	b.NewFunctionBuilder().
		WithParameterNames("key_ptr", "key_len", "dst_ptr", "dst_len").
		WithResultNames("written").
		WithFunc(func(_ context.Context, m api.Module, keyPtr, keyLen, dstPtr, dstLen uint32) uint32 {
			return r.getStorage(m.Memory(), keyPtr, keyLen, dstPtr, dstLen)
		}).
		Export(types.HostGetStorage)

	b.NewFunctionBuilder().
		WithResultNames("size").
		WithFunc(func(context.Context) uint32 {
			return r.getCallDataSize()
		}).
		Export(types.HostGetCallDataSize)

	b.NewFunctionBuilder().
		WithParameterNames("dst_ptr", "dst_len").
		WithResultNames("written").
		WithFunc(func(_ context.Context, m api.Module, dstPtr, dstLen uint32) uint32 {
			return r.getCallData(m.Memory(), dstPtr, dstLen)
		}).
		Export(types.HostGetCallData)

	b.NewFunctionBuilder().
		WithParameterNames("ptr", "len").
		WithFunc(func(ctx context.Context, m api.Module, ptr, size uint32) {
			r.finish(m.Memory(), ptr, size)
			halt(ctx, m)
		}).
		Export(types.HostFinish)

	b.NewFunctionBuilder().
		WithParameterNames("ptr", "len").
		WithFunc(func(ctx context.Context, m api.Module, ptr, size uint32) {
			r.revert(m.Memory(), ptr, size)
			halt(ctx, m)
		}).
		Export(types.HostRevert)

	b.NewFunctionBuilder().
		WithParameterNames("data_ptr", "data_len", "topics_ptr", "topic_count").
		WithFunc(func(_ context.Context, m api.Module, dataPtr, dataLen, topicsPtr, topicCount uint32) {
			r.log(m.Memory(), dataPtr, dataLen, topicsPtr, topicCount)
		}).
		Export(types.HostLog)

	b.NewFunctionBuilder().
		WithParameterNames("dst_ptr").
		WithFunc(func(_ context.Context, m api.Module, dstPtr uint32) {
			r.getCaller(m.Memory(), dstPtr)
		}).
		Export(types.HostGetCaller)

	b.NewFunctionBuilder().
		WithResultNames("number").
		WithFunc(func(context.Context) uint64 {
			return r.getBlockNumber()
		}).
		Export(types.HostGetBlockNumber)

	b.NewFunctionBuilder().
		WithResultNames("timestamp").
		WithFunc(func(context.Context) uint64 {
			return r.getBlockTimestamp()
		}).
		Export(types.HostGetBlockTimestamp)

	b.NewFunctionBuilder().
		WithParameterNames("addr_ptr", "input_ptr", "input_len").
		WithResultNames("status").
		WithFunc(func(ctx context.Context, m api.Module, addrPtr, inputPtr, inputLen uint32) uint32 {
			return r.call(ctx, m.Memory(), addrPtr, inputPtr, inputLen)
		}).
		Export(types.HostCall)

	b.NewFunctionBuilder().
		WithResultNames("size").
		WithFunc(func(context.Context) uint32 {
			return r.getReturnDataSize()
		}).
		Export(types.HostGetReturnDataSize)

	b.NewFunctionBuilder().
		WithParameterNames("dst_ptr", "dst_len").
		WithResultNames("written").
		WithFunc(func(_ context.Context, m api.Module, dstPtr, dstLen uint32) uint32 {
			return r.getReturnData(m.Memory(), dstPtr, dstLen)
		}).
		Export(types.HostGetReturnData)

	if _, err := b.Instantiate(ctx); err != nil {
		return fmt.Errorf("failed to instantiate host module: %w", err)
	}
	return nil
}

// halt stops the module after a terminal host call, the way proc_exit does.
func halt(ctx context.Context, m api.Module) {
	_ = m.CloseWithExitCode(ctx, 0)
	panic(sys.NewExitError(0))
}

// executeWasm instantiates a fresh module for the frame and calls its entry.
func (r *Runtime) executeWasm(ctx context.Context, f *Frame, compiled wazero.CompiledModule) error {
	cfg := wazero.NewModuleConfig().
		WithName("").
		WithStartFunctions("_initialize")
	mod, err := r.engine.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		return fmt.Errorf("failed to instantiate module: %w", err)
	}
	defer mod.Close(ctx)

	entry := types.EntryCall
	if f.Mode == types.Deploy {
		entry = types.EntryDeploy
	}
	fn := mod.ExportedFunction(entry)
	if fn == nil {
		return fmt.Errorf("%s function not found", entry)
	}
	if _, err := fn.Call(ctx); err != nil {
		var exit *sys.ExitError
		if errors.As(err, &exit) && f.Status != Running {
			return nil
		}
		return fmt.Errorf("failed to execute %s: %w", entry, err)
	}
	return nil
}

// ModuleInfo lists the imports and exports of a compiled module.
type ModuleInfo struct {
	Imports []string
	Exports []string
	// Missing lists host functions imported from "env" that the runtime
	// does not provide.
	Missing []string
}

// Inspect compiles code and reports its imports and exports.
func Inspect(ctx context.Context, code []byte) (*ModuleInfo, error) {
	engine := wazero.NewRuntime(ctx)
	defer engine.Close(ctx)

	compiled, err := engine.CompileModule(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to compile WebAssembly module: %w", err)
	}

	known := make(map[string]bool, len(types.HostFunctionNames))
	for _, name := range types.HostFunctionNames {
		known[name] = true
	}
	info := &ModuleInfo{}
	for _, def := range compiled.ImportedFunctions() {
		module, name, _ := def.Import()
		info.Imports = append(info.Imports, module+"."+name)
		if module == types.HostModule && !known[name] {
			info.Missing = append(info.Missing, name)
		}
	}
	for name := range compiled.ExportedFunctions() {
		info.Exports = append(info.Exports, name)
	}
	sort.Strings(info.Exports)
	return info, nil
}
