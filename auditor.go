package wpfs

import (
	"context"
)

// BaseAuditor answers predicates and integrity checks through the host.
type BaseAuditor struct {
	env *Environment
}

// NewAuditor creates the base auditor over env.
func NewAuditor(env *Environment) *BaseAuditor {
	return &BaseAuditor{env: env}
}

// Kind implements Service
func (a *BaseAuditor) Kind() Kind { return KindAuditor }

func (a *BaseAuditor) Exists(ctx context.Context, path string) (bool, error) {
	return a.env.Host.Exists(ctx, path), nil
}

func (a *BaseAuditor) IsBinary(text string) (bool, error) {
	return IsBinary(text), nil
}

func (a *BaseAuditor) IsFile(ctx context.Context, path string) (bool, error) {
	return a.env.Host.IsFile(ctx, path), nil
}

func (a *BaseAuditor) IsDirectory(ctx context.Context, path string) (bool, error) {
	return a.env.Host.IsDir(ctx, path), nil
}

func (a *BaseAuditor) IsReadable(ctx context.Context, path string) (bool, error) {
	return a.env.Host.IsReadable(ctx, path), nil
}

func (a *BaseAuditor) IsWritable(ctx context.Context, path string) (bool, error) {
	return a.env.Host.IsWritable(ctx, path), nil
}

func (a *BaseAuditor) Connect(ctx context.Context) (bool, error) {
	err := a.env.Host.Connect(ctx)
	return err == nil, err
}

// VerifyMD5 reports a host error object as a plain mismatch.
func (a *BaseAuditor) VerifyMD5(ctx context.Context, filename, expectedMD5 string) (bool, error) {
	ok, err := a.env.Runtime.VerifyMD5(ctx, filename, expectedMD5)
	if _, isHost := AsHostError(err); isHost {
		return false, nil
	}
	return ok, err
}

// VerifySignature reports a host error object as a plain mismatch.
func (a *BaseAuditor) VerifySignature(ctx context.Context, filename string, signatures []string, filenameForErrors string) (bool, error) {
	ok, err := a.env.Runtime.VerifySignature(ctx, filename, signatures, filenameForErrors)
	if _, isHost := AsHostError(err); isHost {
		return false, nil
	}
	return ok, err
}

func (a *BaseAuditor) IsZipFile(ctx context.Context, file string) (bool, error) {
	return a.env.Runtime.IsZipValid(ctx, file), nil
}
