// Package sandbox manages disposable execution environments for samples.
//
// The sandbox package allocates a uniquely named temporary directory per
// sample, synthesizes the mock resources the sample needs (a minimal WAV
// asset, mocked credential environment variables) and guarantees removal
// of the directory afterwards regardless of the execution outcome. Each
// environment is exclusively owned by exactly one in-flight execution.
//
// Usage:
//
//	mgr := sandbox.NewManager(logger, "test_api_key")
//	env, err := mgr.Prepare(&smpl)
//	if err != nil {
//	    return err
//	}
//	defer mgr.Cleanup(env)
package sandbox
