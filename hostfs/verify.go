package hostfs

import (
	"context"
	"crypto/ed25519"
	"crypto/md5"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gobeaver/wpfs"
)

// DefaultDownloadTimeout applies when DownloadURL gets a zero timeout.
const DefaultDownloadTimeout = 300 * time.Second

// SignatureHeader carries comma separated base64 ed25519 signatures of a
// download.
const SignatureHeader = "X-Content-Signature"

// DownloadURL fetches rawURL into a temp file and returns its path. A
// Content-MD5 header is checked; with verifySignature the signatures in
// SignatureHeader must match a trusted key. The temp file is removed on
// any failure.
func (r *Runtime) DownloadURL(ctx context.Context, rawURL string, timeout time.Duration, verifySignature bool) (string, error) {
	u, err := url.Parse(rawURL)
	if rawURL == "" || err != nil || u.Scheme == "" || u.Host == "" {
		return "", &wpfs.HostError{Code: "http_no_url", Message: "Invalid URL Provided."}
	}
	if timeout <= 0 {
		timeout = DefaultDownloadTimeout
	}

	tmp, err := r.TempName(ctx, path.Base(u.Path), "")
	if err != nil {
		return "", &wpfs.HostError{Code: "http_no_file", Message: "Could not create temporary file."}
	}
	cleanup := func() { _ = r.host.Delete(ctx, tmp, false, wpfs.TypeFile) }

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		cleanup()
		return "", &wpfs.HostError{Code: "http_request_failed", Message: err.Error()}
	}
	resp, err := r.opts.Client.Do(req)
	if err != nil {
		cleanup()
		return "", &wpfs.HostError{Code: "http_request_failed", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		cleanup()
		return "", &wpfs.HostError{Code: "http_404", Message: strings.TrimSpace(resp.Status)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		cleanup()
		return "", &wpfs.HostError{Code: "http_request_failed", Message: err.Error()}
	}
	if err := r.host.PutContents(ctx, tmp, data, 0); err != nil {
		cleanup()
		return "", err
	}

	// A header that does not decode to an md5 is ignored; only a real
	// mismatch rejects the download.
	if sum := resp.Header.Get("Content-MD5"); sum != "" {
		if _, err := r.VerifyMD5(ctx, tmp, sum); err != nil {
			cleanup()
			return "", err
		}
	}

	if verifySignature {
		var signatures []string
		for _, s := range strings.Split(resp.Header.Get(SignatureHeader), ",") {
			if s = strings.TrimSpace(s); s != "" {
				signatures = append(signatures, s)
			}
		}
		if ok, err := r.VerifySignature(ctx, tmp, signatures, path.Base(u.Path)); !ok {
			cleanup()
			return "", err
		}
	}

	r.opts.Logger.Debug().Str("url", rawURL).Str("file", tmp).Int("bytes", len(data)).Msg("download complete")
	return tmp, nil
}

// VerifyMD5 compares the md5 of file with expected, given as 32 hex digits
// or 24 base64 characters. A mismatch returns a *wpfs.HostError.
func (r *Runtime) VerifyMD5(ctx context.Context, file, expected string) (bool, error) {
	var want []byte
	switch len(expected) {
	case 32:
		b, err := hex.DecodeString(expected)
		if err != nil {
			return false, nil
		}
		want = b
	case 24:
		b, err := base64.StdEncoding.DecodeString(expected)
		if err != nil {
			return false, nil
		}
		want = b
	default:
		return false, nil
	}

	data, err := r.host.GetContents(ctx, file)
	if err != nil {
		return false, err
	}
	got := md5.Sum(data)
	if hex.EncodeToString(got[:]) == hex.EncodeToString(want) {
		return true, nil
	}
	msg := fmt.Sprintf("The checksum of the file (%s) does not match the expected checksum value (%s).",
		hex.EncodeToString(got[:]), hex.EncodeToString(want))
	return false, &wpfs.HostError{Code: "md5_mismatch", Message: msg}
}

// VerifySignature checks the ed25519 signatures of the sha384 digest of
// file against the trusted keys. Failures are returned as *wpfs.HostError.
func (r *Runtime) VerifySignature(ctx context.Context, file string, signatures []string, displayName string) (bool, error) {
	if displayName == "" {
		displayName = path.Base(file)
	}
	if len(r.opts.TrustedKeys) == 0 {
		return false, &wpfs.HostError{
			Code:    "signature_verification_unsupported",
			Message: fmt.Sprintf("The authenticity of %s could not be verified as signature verification is unavailable on this system.", displayName),
		}
	}
	if len(signatures) == 0 {
		return false, &wpfs.HostError{
			Code:    "signature_verification_no_signature",
			Message: fmt.Sprintf("The authenticity of %s could not be verified as no signature was found.", displayName),
		}
	}

	data, err := r.host.GetContents(ctx, file)
	if err != nil {
		return false, err
	}
	digest := sha512.Sum384(data)

	for _, s := range signatures {
		sig, err := base64.StdEncoding.DecodeString(s)
		if err != nil || len(sig) != ed25519.SignatureSize {
			continue
		}
		for _, key := range r.opts.TrustedKeys {
			if ed25519.Verify(key, digest[:], sig) {
				return true, nil
			}
		}
	}

	r.opts.Logger.Warn().Str("file", displayName).Int("signatures", len(signatures)).Msg("signature verification failed")
	return false, &wpfs.HostError{
		Code:    "signature_verification_failed",
		Message: fmt.Sprintf("The authenticity of %s could not be verified.", displayName),
	}
}
