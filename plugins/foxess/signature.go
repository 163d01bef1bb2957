package foxess

import (
	"crypto/md5" // nolint:gosec
	"encoding/hex"
	"strconv"
)

// signPath computes the keyed signature the cloud expects: the request
// path, API token, and millisecond timestamp joined by CRLF and hashed.
// It is deterministic given its three inputs; the timestamp is the only
// varying one, so signatures are never reused. Staleness rejection is the
// upstream's job, not the client's.
func signPath(path, token string, timestampMillis int64) string {
	plain := path + "\r\n" + token + "\r\n" + strconv.FormatInt(timestampMillis, 10)
	sum := md5.Sum([]byte(plain)) // nolint:gosec
	return hex.EncodeToString(sum[:])
}

// signedHeaders returns the three auth headers for one signed request.
func signedHeaders(path, token string, timestampMillis int64) map[string]string {
	return map[string]string{
		"token":     token,
		"timestamp": strconv.FormatInt(timestampMillis, 10),
		"signature": signPath(path, token, timestampMillis),
	}
}
