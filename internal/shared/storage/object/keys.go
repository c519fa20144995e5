package object

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidFileName is returned for empty names or names containing "..".
var ErrInvalidFileName = errors.New("invalid file name")

// sniffLen is the number of leading bytes http.DetectContentType inspects.
const sniffLen = 512

// OwnerKey maps a user id to the hex namespace its objects are stored under.
// Raw ids such as "guest:abc" never appear in storage keys.
func OwnerKey(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])
}

// SanitizeFileName flattens path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", ErrInvalidFileName
	}
	return s, nil
}

// NewKey returns a fresh slash-separated storage key for a user's upload,
// shaped as <owner>/<uuid>_<file name>.
func NewKey(userID, fileName string) (string, error) {
	name, err := SanitizeFileName(fileName)
	if err != nil {
		return "", err
	}
	return path.Join(OwnerKey(userID), uuid.NewString()+"_"+name), nil
}

// DerivedKey names an artifact stored next to key, such as extracted text.
func DerivedKey(key, suffix string) string {
	return key + "." + strings.TrimPrefix(suffix, ".")
}

// Sniff detects the MIME type of r from its first bytes and returns a reader
// that replays them before the rest of r.
func Sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, err
	}
	head = head[:n]
	return http.DetectContentType(head), io.MultiReader(bytes.NewReader(head), r), nil
}
